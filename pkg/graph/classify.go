package graph

import (
	"regexp"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

var singleDigit = regexp.MustCompile(`^\d$`)

// Catalog column names.
const (
	ColIdNum        = "IdNum"
	ColTitle        = "Title"
	ColToC          = "ToC"
	ColExtent       = "Extent"
	ColSerialNum    = "SerialNum"
	ColBibCit       = "BibCit"
	ColPartNum      = "PartNum"
	ColConditionNts = "ConditionNts"
	ColDescription  = "Description"
	ColDescComment  = "DescComment"
	ColWherMade     = "WherMade"
	ColMaterial     = "Material"
	ColSubjectTop   = "SubjectTop"
	ColCreator      = "Creator"
	ColContributor  = "Contributor"
	ColAddlAuth     = "AddlAuth"
	ColCreated      = "Created"
	ColDateCR       = "DateCR"
	ColCopyrighted  = "Copyrighted"
)

// ClassifyInput carries the normalized values the classifier looks at.
type ClassifyInput struct {
	ToC       string
	Extent    string
	SerialNum string
	BibCit    string
	PartNum   string
	Title     string
}

// classifyInputFromRow normalizes the classifier columns of a row.
func classifyInputFromRow(row common.Row) ClassifyInput {
	return ClassifyInput{
		ToC:       Clean(row.Get(ColToC)),
		Extent:    Clean(row.Get(ColExtent)),
		SerialNum: Clean(row.Get(ColSerialNum)),
		BibCit:    Clean(row.Get(ColBibCit)),
		PartNum:   Clean(row.Get(ColPartNum)),
		Title:     Clean(row.Get(ColTitle)),
	}
}

// Classify decides which artifact kind a row describes. Bibliographic fields
// win over part numbers; a single-digit part number does not make an Item.
// Rows without a title are rejected with ErrMissingTitle.
func Classify(in ClassifyInput) (common.EntityKind, error) {
	if in.Title == "" {
		return "", ErrMissingTitle
	}
	if in.ToC != "" || in.Extent != "" || in.SerialNum != "" || in.BibCit != "" {
		return common.KindDocument, nil
	}
	if isPartNumber(in.PartNum) {
		return common.KindItem, nil
	}
	return common.KindArtifact, nil
}

func isPartNumber(partNum string) bool {
	return partNum != "" && !singleDigit.MatchString(partNum)
}
