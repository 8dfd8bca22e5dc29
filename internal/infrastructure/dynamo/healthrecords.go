package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/herdtrack-api/internal/domain"
)

// HealthRecordRepo provides typed DynamoDB operations for the health records table.
type HealthRecordRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewHealthRecordRepo(client *dynamodb.Client, tableName string) *HealthRecordRepo {
	return &HealthRecordRepo{client: client, tableName: tableName}
}

func (r *HealthRecordRepo) Put(ctx context.Context, rec *domain.HealthRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal health record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *HealthRecordRepo) Get(ctx context.Context, recordID string) (*domain.HealthRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("record_id", recordID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("health record not found: %w", domain.ErrNotFound)
	}
	var rec domain.HealthRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByAnimal returns the animal's medical history, most recent visit first.
func (r *HealthRecordRepo) ListByAnimal(ctx context.Context, animalID string) ([]domain.HealthRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("animal_id-date-index"),
		KeyConditionExpression: aws.String("animal_id = :aid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":aid": &types.AttributeValueMemberS{Value: animalID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var records []domain.HealthRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByOwner returns every health record across the owner's animals.
func (r *HealthRecordRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.HealthRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("owner_id-index"),
		KeyConditionExpression: aws.String("owner_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: ownerID},
		},
	})
	if err != nil {
		return nil, err
	}
	var records []domain.HealthRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListFollowUps returns the owner's open cases (active or ongoing) whose
// follow-up visit is still ahead, soonest first. The owner GSI has no sort
// key, so ordering happens client-side.
func (r *HealthRecordRepo) ListFollowUps(ctx context.Context, ownerID string, now time.Time) ([]domain.HealthRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("owner_id-index"),
		KeyConditionExpression: aws.String("owner_id = :oid"),
		FilterExpression:       aws.String("#fu > :now AND #st IN (:active, :ongoing)"),
		ExpressionAttributeNames: map[string]string{
			"#fu": fieldFollowUpDate,
			"#st": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid":     &types.AttributeValueMemberS{Value: ownerID},
			":now":     &types.AttributeValueMemberS{Value: rangeBound(now)},
			":active":  &types.AttributeValueMemberS{Value: domain.HealthRecordStatusActive},
			":ongoing": &types.AttributeValueMemberS{Value: domain.HealthRecordStatusOngoing},
		},
	})
	if err != nil {
		return nil, err
	}
	var records []domain.HealthRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	// The filter guarantees follow_up_date is present on every match.
	sort.Slice(records, func(i, j int) bool {
		return records[i].FollowUpDate.Before(*records[j].FollowUpDate)
	})
	return records, nil
}

func (r *HealthRecordRepo) Update(ctx context.Context, recordID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("record_id", recordID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// HardDelete permanently removes a health record.
func (r *HealthRecordRepo) HardDelete(ctx context.Context, recordID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("record_id", recordID),
	})
	return err
}
