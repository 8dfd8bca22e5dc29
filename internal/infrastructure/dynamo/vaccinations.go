package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/herdtrack-api/internal/domain"
)

// VaccinationRepo provides typed DynamoDB operations for the vaccinations
// table. Due-date queries run against the owner_id-next_due_date GSI; dates
// are RFC 3339 strings so the range key sorts chronologically.
type VaccinationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVaccinationRepo(client *dynamodb.Client, tableName string) *VaccinationRepo {
	return &VaccinationRepo{client: client, tableName: tableName}
}

func (r *VaccinationRepo) Put(ctx context.Context, v *domain.Vaccination) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal vaccination: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *VaccinationRepo) Get(ctx context.Context, vaccinationID string) (*domain.Vaccination, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("vaccination_id", vaccinationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("vaccination not found: %w", domain.ErrNotFound)
	}
	var v domain.Vaccination
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByAnimal returns the animal's vaccination history, most recent dose first.
func (r *VaccinationRepo) ListByAnimal(ctx context.Context, animalID string) ([]domain.Vaccination, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("animal_id-administered_date-index"),
		KeyConditionExpression: aws.String("animal_id = :aid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":aid": &types.AttributeValueMemberS{Value: animalID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var vaccinations []domain.Vaccination
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &vaccinations); err != nil {
		return nil, err
	}
	return vaccinations, nil
}

// ListUpcoming returns the owner's completed vaccinations due strictly after
// now, soonest first.
func (r *VaccinationRepo) ListUpcoming(ctx context.Context, ownerID string, now time.Time) ([]domain.Vaccination, error) {
	return r.queryDue(ctx, ownerID, "next_due_date > :now", now)
}

// ListOverdue returns the owner's completed vaccinations due strictly before
// now, ascending by due date (least overdue first, the triage display order).
func (r *VaccinationRepo) ListOverdue(ctx context.Context, ownerID string, now time.Time) ([]domain.Vaccination, error) {
	return r.queryDue(ctx, ownerID, "next_due_date < :now", now)
}

func (r *VaccinationRepo) queryDue(ctx context.Context, ownerID, rangeCond string, now time.Time) ([]domain.Vaccination, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("owner_id-next_due_date-index"),
		KeyConditionExpression: aws.String("owner_id = :oid AND " + rangeCond),
		FilterExpression:       aws.String("#st = :completed"),
		ExpressionAttributeNames: map[string]string{
			"#st": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid":       &types.AttributeValueMemberS{Value: ownerID},
			":now":       &types.AttributeValueMemberS{Value: rangeBound(now)},
			":completed": &types.AttributeValueMemberS{Value: domain.VaccinationStatusCompleted},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	var vaccinations []domain.Vaccination
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &vaccinations); err != nil {
		return nil, err
	}
	return vaccinations, nil
}

func (r *VaccinationRepo) Update(ctx context.Context, vaccinationID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("vaccination_id", vaccinationID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// HardDelete permanently removes a vaccination record.
func (r *VaccinationRepo) HardDelete(ctx context.Context, vaccinationID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("vaccination_id", vaccinationID),
	})
	return err
}
