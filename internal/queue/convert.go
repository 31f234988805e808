package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/catalog-graph/pkg/graph"
	"github.com/OFFIS-RIT/catalog-graph/pkg/loader"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"

	"github.com/go-playground/validator"
)

// ConvertMsg is the body of a convert_queue message.
type ConvertMsg struct {
	InputKey  string `json:"input_key" validate:"required"`
	OutputKey string `json:"output_key" validate:"required"`
	Format    string `json:"format" validate:"omitempty,oneof=grouped json jsonl lines ndjson"`
}

var validate = validator.New()

// ParseConvertMsg decodes and validates a message body.
func ParseConvertMsg(body []byte) (ConvertMsg, error) {
	var msg ConvertMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, fmt.Errorf("invalid message: %w", err)
	}
	if err := validate.Struct(msg); err != nil {
		return msg, fmt.Errorf("invalid message: %w", err)
	}
	return msg, nil
}

// Locker serializes jobs writing the same output.
type Locker interface {
	WithLease(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// ConvertHandler runs conversion jobs. Input files are read through Loader,
// the document goes to the writer returned by NewOutput and to every Sink.
// Lock is optional.
type ConvertHandler struct {
	Client    *graph.GraphClient
	Loader    loader.GraphFileLoader
	NewOutput func(key string, format jsonfile.Format) store.GraphWriter
	Sinks     []store.GraphWriter
	Lock      Locker
}

// ProcessConvertMessage converts the catalog named by the message.
func (h *ConvertHandler) ProcessConvertMessage(ctx context.Context, body []byte) error {
	msg, err := ParseConvertMsg(body)
	if err != nil {
		return err
	}
	if h.Lock == nil {
		return h.convert(ctx, msg)
	}
	return h.Lock.WithLease(ctx, "output:"+msg.OutputKey, func(ctx context.Context) error {
		return h.convert(ctx, msg)
	})
}

func (h *ConvertHandler) convert(ctx context.Context, msg ConvertMsg) error {
	format, err := jsonfile.ParseFormat(msg.Format)
	if err != nil {
		return err
	}

	file := loader.NewGraphFile(loader.NewGraphFileParams{
		ID:       msg.InputKey,
		FilePath: msg.InputKey,
		Loader:   h.Loader,
	})
	source, err := loader.RowsFromFile(ctx, file)
	if err != nil {
		return err
	}

	doc, report, err := h.Client.ProcessGraph(ctx, source)
	if err != nil {
		return err
	}

	if err := store.WriteAll(ctx, doc, h.NewOutput(msg.OutputKey, format), h.Sinks...); err != nil {
		return err
	}

	logger.Info("[Queue] Conversion finished",
		"input", msg.InputKey,
		"output", msg.OutputKey,
		"run_id", report.RunID,
		"processed", report.ProcessedRows,
		"skipped", len(report.Skipped),
	)
	return nil
}
