package graph

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

// materialCodes maps catalog material codes to material names.
var materialCodes = map[string]string{
	"papr": "paper",
	"digi": "digital",
	"mix":  "mix",
}

// NewPrimaryEntity builds the artifact entity a row describes, using the
// kind decided by Classify. Optional attributes are only filled when the
// cell carries data.
func NewPrimaryEntity(kind common.EntityKind, row common.Row) (common.Entity, error) {
	base := common.ArtifactData{
		Title:       Clean(row.Get(ColTitle)),
		Description: Clean(row.Get(ColDescription)),
		DescComment: Clean(row.Get(ColDescComment)),
		WherMade:    Clean(row.Get(ColWherMade)),
	}
	if base.Title == "" {
		return common.Entity{}, ErrMissingTitle
	}

	switch kind {
	case common.KindDocument:
		created := Clean(row.Get(ColCreated))
		if created == "" {
			created = Clean(row.Get(ColDateCR))
		}
		return common.NewDocument(common.DocumentData{
			ArtifactData: base,
			ToC:          Clean(row.Get(ColToC)),
			Extent:       Clean(row.Get(ColExtent)),
			SerialNum:    Clean(row.Get(ColSerialNum)),
			BibCit:       Clean(row.Get(ColBibCit)),
			Created:      created,
			Copyrighted:  ParseCopyright(row.Get(ColCopyrighted)),
		}), nil
	case common.KindItem:
		partNum := Clean(row.Get(ColPartNum))
		if !isPartNumber(partNum) {
			partNum = ""
		}
		return common.NewItem(common.ItemData{
			ArtifactData: base,
			PartNum:      partNum,
			ConditionNts: Clean(row.Get(ColConditionNts)),
		}), nil
	case common.KindArtifact:
		return common.NewArtifact(base), nil
	default:
		return common.Entity{}, fmt.Errorf("unsupported primary entity kind %q", kind)
	}
}

// ParseCopyright reads the single-character copyright code: "y" is true,
// "n" and "0" are false and anything else leaves the flag unset.
func ParseCopyright(value string) *bool {
	code := strings.ToLower(Clean(value))
	var flag bool
	switch code {
	case "y":
		flag = true
	case "n", "0":
		flag = false
	default:
		return nil
	}
	return &flag
}

// NewMaterial maps a material code to a Material entity. Absent cells yield
// ok=false and no error; codes outside the table yield ErrUnknownMaterial.
func NewMaterial(value string) (common.Entity, bool, error) {
	code := Clean(value)
	if code == "" {
		return common.Entity{}, false, nil
	}
	name, ok := materialCodes[strings.ToLower(code)]
	if !ok {
		return common.Entity{}, false, fmt.Errorf("%w: %q", ErrUnknownMaterial, code)
	}
	return common.NewMaterial(name), true, nil
}

// NewCategory builds a Category from the SubjectTop cell.
func NewCategory(value string) (common.Entity, bool) {
	name := Clean(value)
	if name == "" {
		return common.Entity{}, false
	}
	return common.NewCategory(name), true
}
