package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/herdtrack-api/internal/domain"
)

// VaccineRepo provides typed DynamoDB operations for the vaccine catalog table.
type VaccineRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVaccineRepo(client *dynamodb.Client, tableName string) *VaccineRepo {
	return &VaccineRepo{client: client, tableName: tableName}
}

func (r *VaccineRepo) Put(ctx context.Context, v *domain.Vaccine) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal vaccine: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *VaccineRepo) Get(ctx context.Context, vaccineID string) (*domain.Vaccine, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("vaccine_id", vaccineID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("vaccine not found: %w", domain.ErrNotFound)
	}
	var v domain.Vaccine
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Scan returns the whole catalog. The table is reference data and small.
func (r *VaccineRepo) Scan(ctx context.Context) ([]domain.Vaccine, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var vaccines []domain.Vaccine
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &vaccines); err != nil {
		return nil, err
	}
	return vaccines, nil
}

func (r *VaccineRepo) Update(ctx context.Context, vaccineID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("vaccine_id", vaccineID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// HardDelete permanently removes a catalog entry.
func (r *VaccineRepo) HardDelete(ctx context.Context, vaccineID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("vaccine_id", vaccineID),
	})
	return err
}
