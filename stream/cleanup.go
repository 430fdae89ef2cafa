// Package stream provides DynamoDB Streams handlers for reference cleanup.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/arbor/document"
	"github.com/jacentio/arbor/internal/shard"
	"github.com/jacentio/arbor/property"
	"github.com/jacentio/arbor/store"
)

// Handler processes DynamoDB stream events for deleted documents: it
// removes the deleted document from the back-reference lists of the
// documents it pointed at, and releases its unique constraint records.
type Handler struct {
	store    *store.Store
	registry *document.Registry
	logger   *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(s *store.Store, registry *document.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    s,
		registry: registry,
		logger:   logger,
	}
}

// HandleDocumentRemoval processes DynamoDB stream events for document
// deletions. This function is designed to be used as an AWS Lambda
// handler.
func (h *Handler) HandleDocumentRemoval(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// keyRef satisfies property.Referenceable for a bare document key.
type keyRef string

func (k keyRef) Key() string { return string(k) }

// processRecord processes a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != "REMOVE" {
		return nil
	}

	image := record.Change.OldImage
	docType := getStringAttr(image, "doc_type")
	key := getStringAttr(image, "id")
	if docType == "" || key == "" {
		return nil // not an arbor document item
	}

	typ, ok := h.registry.Type(docType)
	if !ok {
		h.logger.Warn("removal for unregistered document type",
			"docType", docType,
			"id", key,
		)
		return nil
	}

	h.logger.Info("processing document removal",
		"docType", docType,
		"id", key,
	)

	removed := keyRef(key)
	cleaned := 0

	// 1. Drop every stored reference between the removed document and
	//    its linked documents, in both link directions.
	for _, task := range h.cleanupTasks(docType, image) {
		doc, err := h.store.Get(ctx, task.typ, task.key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s %s: %w", task.typ.Name(), task.key, err)
		}
		if !task.deleter.DeleteReference(doc, removed) {
			continue
		}
		if err := h.store.Save(ctx, doc); err != nil {
			h.logger.Warn("failed to save reference cleanup",
				"docType", task.typ.Name(),
				"id", task.key,
				"error", err,
			)
			// Continue - idempotent, will retry
			continue
		}
		cleaned++
	}

	// 2. Release the removed document's unique constraint records.
	released := 0
	for _, field := range typ.Fields() {
		prop, _ := typ.Property(field)
		if !prop.Unique() {
			continue
		}
		value, ok := scalarAttr(image, field)
		if !ok {
			continue
		}
		pk := shard.UniqueConstraintPK(docType, field, value)
		if err := h.store.ReleaseConstraint(ctx, pk); err != nil {
			h.logger.Warn("failed to release unique constraint",
				"pk", pk,
				"error", err,
			)
			continue
		}
		released++
	}

	h.logger.Info("document removal processed",
		"docType", docType,
		"id", key,
		"backReferencesCleaned", cleaned,
		"constraintsReleased", released,
	)

	return nil
}

// cleanupTask names one stored document that must drop its reference to
// the removed document.
type cleanupTask struct {
	typ     *document.Type
	deleter property.ReferenceDeleter
	key     string
}

// cleanupTasks collects both directions of reference cleanup for a
// removed document. For the links its type declares, the targets named
// by its reference fields must drop it from their back-lists. For the
// links aimed at its type, the sources holding forward keys to it must
// clear them; the removed image's synthesized back-list field carries
// exactly those source keys.
func (h *Handler) cleanupTasks(docType string, image map[string]events.DynamoDBAttributeValue) []cleanupTask {
	var tasks []cleanupTask

	for _, link := range h.registry.LinksFrom(docType) {
		typ, deleter, ok := h.deleterFor(link.TargetType, link.CollectionName)
		if !ok {
			continue
		}
		for _, key := range refKeys(image, link.Field) {
			tasks = append(tasks, cleanupTask{typ: typ, deleter: deleter, key: key})
		}
	}

	for _, link := range h.registry.LinksTo(docType) {
		typ, deleter, ok := h.deleterFor(link.SourceType, link.Field)
		if !ok {
			continue
		}
		for _, key := range refKeys(image, link.CollectionName) {
			tasks = append(tasks, cleanupTask{typ: typ, deleter: deleter, key: key})
		}
	}

	return tasks
}

// deleterFor resolves a registered type and one of its fields into the
// reference-deletion capability, when the field supports it.
func (h *Handler) deleterFor(typeName, field string) (*document.Type, property.ReferenceDeleter, bool) {
	typ, ok := h.registry.Type(typeName)
	if !ok {
		return nil, nil, false
	}
	prop, ok := typ.Property(field)
	if !ok {
		return nil, nil, false
	}
	deleter, ok := prop.(property.ReferenceDeleter)
	if !ok {
		return nil, nil, false
	}
	return typ, deleter, true
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// scalarAttr renders a scalar attribute as the text form unique
// constraint keys are derived from.
func scalarAttr(image map[string]events.DynamoDBAttributeValue, key string) (string, bool) {
	v, ok := image[key]
	if !ok {
		return "", false
	}
	switch v.DataType() {
	case events.DataTypeString:
		return v.String(), true
	case events.DataTypeNumber:
		return v.Number(), true
	case events.DataTypeBoolean:
		if v.Boolean() {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

// refKeys extracts the reference keys held by a field: a single key, a
// list of keys, or a key-valued mapping.
func refKeys(image map[string]events.DynamoDBAttributeValue, field string) []string {
	v, ok := image[field]
	if !ok {
		return nil
	}
	switch v.DataType() {
	case events.DataTypeString:
		return []string{v.String()}
	case events.DataTypeList:
		var keys []string
		for _, item := range v.List() {
			if item.DataType() == events.DataTypeString {
				keys = append(keys, item.String())
			}
		}
		return keys
	case events.DataTypeMap:
		var keys []string
		for _, item := range v.Map() {
			if item.DataType() == events.DataTypeString {
				keys = append(keys, item.String())
			}
		}
		return keys
	}
	return nil
}
