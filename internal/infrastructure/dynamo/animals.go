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

// AnimalRepo provides typed DynamoDB operations for the animals table.
type AnimalRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAnimalRepo(client *dynamodb.Client, tableName string) *AnimalRepo {
	return &AnimalRepo{client: client, tableName: tableName}
}

func (r *AnimalRepo) Put(ctx context.Context, a *domain.Animal) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal animal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AnimalRepo) Get(ctx context.Context, animalID string) (*domain.Animal, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("animal_id", animalID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("animal not found: %w", domain.ErrNotFound)
	}
	var a domain.Animal
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByTagNumber looks an animal up by its ear-tag number via GSI.
func (r *AnimalRepo) GetByTagNumber(ctx context.Context, tagNumber string) (*domain.Animal, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("tag_number-index"),
		KeyConditionExpression: aws.String("tag_number = :tn"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tn": &types.AttributeValueMemberS{Value: tagNumber},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("animal not found: %w", domain.ErrNotFound)
	}
	var a domain.Animal
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByOwner returns the owner's enabled animals.
func (r *AnimalRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Animal, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("owner_id-index"),
		KeyConditionExpression: aws.String("owner_id = :oid"),
		FilterExpression:       aws.String("#en = :t"),
		ExpressionAttributeNames: map[string]string{
			"#en": fieldEnable,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: ownerID},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}
	var animals []domain.Animal
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &animals); err != nil {
		return nil, err
	}
	return animals, nil
}

func (r *AnimalRepo) Update(ctx context.Context, animalID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("animal_id", animalID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *AnimalRepo) SoftDelete(ctx context.Context, animalID string) error {
	return r.Update(ctx, animalID, map[string]interface{}{
		fieldEnable:  false,
		"deleted_at": time.Now().UTC().Format(time.RFC3339),
	})
}
