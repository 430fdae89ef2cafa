package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/arbor/document"
	"github.com/jacentio/arbor/internal/shard"
	"github.com/jacentio/arbor/property"
)

// Managed item attributes alongside the serialized field data.
const (
	attrID        = "id"
	attrDocType   = "doc_type"
	attrCreatedAt = "created_at"
	attrUpdatedAt = "updated_at"
)

// Store provides DynamoDB persistence for arbor documents.
type Store struct {
	client *dynamodb.Client
	config Config
	tables map[string]string
}

// New creates a new Store instance.
func New(client *dynamodb.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
		tables: make(map[string]string),
	}
}

// Mount maps a document type onto a DynamoDB table. Call once per type
// during setup, before any document operations.
func (s *Store) Mount(typ *document.Type, table string) {
	s.tables[typ.Name()] = table
}

func (s *Store) tableFor(typ *document.Type) (string, error) {
	table, ok := s.tables[typ.Name()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotMounted, typ.Name())
	}
	return table, nil
}

// Create persists a new document transactionally with its unique
// constraint records.
func (s *Store) Create(ctx context.Context, doc *document.Doc) error {
	table, err := s.tableFor(doc.Type())
	if err != nil {
		return err
	}

	data, err := doc.Serialize()
	if err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	item[attrID] = &types.AttributeValueMemberS{Value: doc.Key()}
	item[attrDocType] = &types.AttributeValueMemberS{Value: doc.Type().Name()}
	item[attrCreatedAt] = &types.AttributeValueMemberS{Value: now}
	item[attrUpdatedAt] = &types.AttributeValueMemberS{Value: now}

	items := []types.TransactWriteItem{}

	// Unique constraint records first, so any index past the entity put
	// maps to a constraint violation.
	for _, uc := range uniqueConstraints(doc.Type(), data) {
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(s.config.UniqueTable),
				Item: map[string]types.AttributeValue{
					"pk":          &types.AttributeValueMemberS{Value: uc.PK},
					"sk":          &types.AttributeValueMemberS{Value: "CONSTRAINT"},
					"doc_type":    &types.AttributeValueMemberS{Value: doc.Type().Name()},
					"field_name":  &types.AttributeValueMemberS{Value: uc.Field},
					"field_value": &types.AttributeValueMemberS{Value: uc.Value},
					"doc_id":      &types.AttributeValueMemberS{Value: doc.Key()},
				},
				ConditionExpression: aws.String("attribute_not_exists(pk)"),
			},
		})
	}

	entityPutIndex := len(items)
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(table),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(id)"),
		},
	})

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})

	return mapCreateTransactionError(err, entityPutIndex)
}

// Get retrieves a document by key, returning ErrNotFound if missing.
func (s *Store) Get(ctx context.Context, typ *document.Type, key string) (*document.Doc, error) {
	table, err := s.tableFor(typ)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       keyAttr(key),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	raw := make(map[string]any)
	if err := attributevalue.UnmarshalMap(result.Item, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	for _, managed := range []string{attrID, attrDocType, attrCreatedAt, attrUpdatedAt} {
		delete(raw, managed)
	}

	return typ.Construct(key, raw)
}

// Save re-persists an existing document's field data with an update
// expression, refreshing updated_at. Managed attributes other than
// updated_at are left untouched, so created_at keeps the value Create
// wrote. Unique field values are assumed unchanged; changing them
// requires a Delete and Create pair so the constraint records follow.
func (s *Store) Save(ctx context.Context, doc *document.Doc) error {
	table, err := s.tableFor(doc.Type())
	if err != nil {
		return err
	}

	data, err := doc.Serialize()
	if err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	expr, names, values := buildSaveUpdate(item)

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       keyAttr(doc.Key()),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// buildSaveUpdate builds the SET expression for Save from marshalled
// field data. Managed attributes are skipped so id, doc_type, and
// created_at keep their stored values; only updated_at is refreshed.
func buildSaveUpdate(item map[string]types.AttributeValue) (string, map[string]string, map[string]types.AttributeValue) {
	names := map[string]string{"#updated_at": attrUpdatedAt}
	values := map[string]types.AttributeValue{
		":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	fields := make([]string, 0, len(item))
	for k := range item {
		switch k {
		case attrID, attrDocType, attrCreatedAt, attrUpdatedAt:
			continue
		}
		fields = append(fields, k)
	}
	sort.Strings(fields)

	clauses := make([]string, 0, len(fields)+1)
	for i, field := range fields {
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		names[nameKey] = field
		values[valueKey] = item[field]
		clauses = append(clauses, nameKey+" = "+valueKey)
	}
	clauses = append(clauses, "#updated_at = :updated_at")

	return "SET " + strings.Join(clauses, ", "), names, values
}

// Delete removes a document and its unique constraint records
// transactionally.
func (s *Store) Delete(ctx context.Context, doc *document.Doc) error {
	table, err := s.tableFor(doc.Type())
	if err != nil {
		return err
	}

	data, err := doc.Type().ToDb(doc.Data())
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{{
		Delete: &types.Delete{
			TableName: aws.String(table),
			Key:       keyAttr(doc.Key()),
		},
	}}
	for _, uc := range uniqueConstraints(doc.Type(), data) {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(s.config.UniqueTable),
				Key:       constraintKey(uc.PK),
			},
		})
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	return err
}

// ReleaseConstraint removes one unique constraint record by partition
// key. Used by the stream handler when cleaning up after removals.
func (s *Store) ReleaseConstraint(ctx context.Context, pk string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.UniqueTable),
		Key:       constraintKey(pk),
	})
	return err
}

// LoadDocument implements document.Loader, backing reference resolution.
func (s *Store) LoadDocument(ctx context.Context, typ *document.Type, key string) (*document.Doc, error) {
	return s.Get(ctx, typ, key)
}

// Lookup returns the existence-lookup capability for one document type,
// backing unique checks on its properties.
func (s *Store) Lookup(docType string) property.ExistenceLookup {
	return &uniqueLookup{store: s, docType: docType}
}

type uniqueLookup struct {
	store   *Store
	docType string
}

// Exists reports whether a constraint record is already stored for the
// field's value.
func (l *uniqueLookup) Exists(ctx context.Context, field string, value any) (bool, error) {
	pk := shard.UniqueConstraintPK(l.docType, field, fmt.Sprint(value))
	result, err := l.store.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.store.config.UniqueTable),
		Key:       constraintKey(pk),
	})
	if err != nil {
		return false, err
	}
	return result.Item != nil, nil
}

// uniqueConstraint describes one unique field value to be recorded.
type uniqueConstraint struct {
	Field string
	Value string
	PK    string
}

// uniqueConstraints extracts the unique field values from serialized
// document data. Nil values carry no constraint.
func uniqueConstraints(typ *document.Type, data map[string]any) []uniqueConstraint {
	var out []uniqueConstraint
	for _, field := range typ.Fields() {
		prop, _ := typ.Property(field)
		if !prop.Unique() {
			continue
		}
		value, ok := data[field]
		if !ok || value == nil {
			continue
		}
		text := fmt.Sprint(value)
		out = append(out, uniqueConstraint{
			Field: field,
			Value: text,
			PK:    shard.UniqueConstraintPK(typ.Name(), field, text),
		})
	}
	return out
}

func keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberS{Value: key},
	}
}

func constraintKey(pk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk},
		"sk": &types.AttributeValueMemberS{Value: "CONSTRAINT"},
	}
}

// mapCreateTransactionError maps DynamoDB transaction errors for Create
// operations. entityPutIndex is the index of the document put item.
func mapCreateTransactionError(err error, entityPutIndex int) error {
	if err == nil {
		return nil
	}

	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for i, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				if i == entityPutIndex {
					return ErrAlreadyExists
				}
				// Must be a unique constraint
				return ErrDuplicateValue
			}
		}
	}

	return err
}
