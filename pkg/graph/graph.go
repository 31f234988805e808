package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
	"github.com/OFFIS-RIT/catalog-graph/pkg/loader"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
)

// ProcessGraph reads every row from source and builds the graph document.
// Rows without IdNum or Title are skipped and reported; field problems are
// recorded as warnings. Only a failing source aborts the run, in which case
// no document is returned.
func (g *GraphClient) ProcessGraph(
	ctx context.Context,
	source loader.RowSource,
) (*common.GraphDocument, *common.Report, error) {
	runID, err := g.newRunID()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	p := newPipeline(runID, g.collectionName)
	logger.Info("[Graph] Processing", "run_id", runID, "collection", g.collectionName)

	for rowNum := 1; ; rowNum++ {
		row, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error("[Graph] Failed to read input", "run_id", runID, "row", rowNum, "err", err)
			return nil, nil, fmt.Errorf("failed to read row %d: %w", rowNum, err)
		}
		p.processRow(rowNum, row)
	}

	doc, report := p.finish()
	logSummary(report)
	return doc, report, nil
}

// pipeline holds the state of one conversion run.
type pipeline struct {
	registry *Registry
	builder  *RelationBuilder
	report   *common.Report
}

func newPipeline(runID, collectionName string) *pipeline {
	return &pipeline{
		registry: NewRegistry(collectionName),
		builder:  NewRelationBuilder(),
		report: &common.Report{
			RunID:          runID,
			NodeCounts:     make(map[common.EntityKind]int),
			RelationCounts: make(map[string]int),
		},
	}
}

func (p *pipeline) skip(rowNum int, err error) {
	p.report.Skipped = append(p.report.Skipped, common.SkippedRow{Row: rowNum, Reason: err.Error()})
	logger.Error("[Graph] Row skipped", "row", rowNum, "reason", err)
}

func (p *pipeline) warn(rowNum int, msg string, keyvals ...any) {
	p.report.Warnings = append(p.report.Warnings, common.Warning{Row: rowNum, Message: msg})
	logger.Warn("[Graph] "+msg, append([]any{"row", rowNum}, keyvals...)...)
}

func (p *pipeline) processRow(rowNum int, row common.Row) {
	p.report.TotalRows++

	idNum := Clean(row.Get(ColIdNum))
	if idNum == "" {
		p.skip(rowNum, ErrMissingIdNum)
		return
	}

	kind, err := Classify(classifyInputFromRow(row))
	if err != nil {
		p.skip(rowNum, err)
		return
	}
	primary, err := NewPrimaryEntity(kind, row)
	if err != nil {
		p.skip(rowNum, err)
		return
	}

	entities := RowEntities{
		IdNum:      idNum,
		Primary:    p.resolve(primary),
		Collection: p.registry.Collection(),
	}

	material, ok, err := NewMaterial(row.Get(ColMaterial))
	if err != nil {
		p.warn(rowNum, "Unrecognized material code", "value", Clean(row.Get(ColMaterial)))
	} else if ok {
		n := p.resolve(material)
		entities.Material = &n
	}

	if category, ok := NewCategory(row.Get(ColSubjectTop)); ok {
		n := p.resolve(category)
		entities.Category = &n
	}

	if creator, ok := ParseCreator(row.Get(ColCreator)); ok {
		n := p.resolve(creator)
		entities.Creator = &n
	}

	entities.Contributors = p.resolveAgents(rowNum, ColContributor, row.Get(ColContributor))
	entities.AddlAuthors = p.resolveAgents(rowNum, ColAddlAuth, row.Get(ColAddlAuth))

	added := p.builder.AddRow(entities)
	p.report.ProcessedRows++
	logger.Info("[Graph] Row processed",
		"row", rowNum,
		"id_num", idNum,
		"kind", kind,
		"identity", entities.Primary.Identity,
		"relationships", added,
	)
}

func (p *pipeline) resolve(e common.Entity) common.Node {
	id, isNew := p.registry.Resolve(e)
	if isNew {
		logger.Debug("[Graph] New node", "kind", e.Kind, "identity", id, "key", e.Label())
	}
	return common.Node{Identity: id, Entity: p.registry.Entities()[id].Entity}
}

func (p *pipeline) resolveAgents(rowNum int, column, value string) []common.Node {
	names := ParseNameList(value)
	if len(names) == 0 {
		return nil
	}
	nodes := make([]common.Node, 0, len(names))
	for _, name := range names {
		if name.Fallback {
			logger.Info("[Graph] Treating name as organization after failed person parse",
				"row", rowNum, "column", column, "name", name.Entity.Label(), "value", Clean(value))
		}
		nodes = append(nodes, p.resolve(name.Entity))
	}
	return nodes
}

func (p *pipeline) finish() (*common.GraphDocument, *common.Report) {
	doc, dropped := Assemble(p.report.RunID, p.registry, p.builder.Relationships())

	p.report.DroppedRelations = dropped
	for kind, count := range p.registry.CountsByKind() {
		p.report.NodeCounts[kind] = count
	}
	for _, rel := range doc.Relationships {
		p.report.RelationCounts[rel.Type]++
	}
	return doc, p.report
}

func logSummary(report *common.Report) {
	logger.Info("[Graph] Processing completed",
		"run_id", report.RunID,
		"rows", report.TotalRows,
		"processed", report.ProcessedRows,
		"skipped", len(report.Skipped),
		"warnings", len(report.Warnings),
		"nodes", report.TotalNodes(),
		"relationships", report.TotalRelationships(),
	)
	for _, kind := range common.Kinds {
		logger.Info("[Graph] Nodes by type", "type", kind, "count", report.NodeCounts[kind])
	}

	types := make([]string, 0, len(report.RelationCounts))
	for t := range report.RelationCounts {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		logger.Info("[Graph] Relationships by type", "type", t, "count", report.RelationCounts[t])
	}
}
