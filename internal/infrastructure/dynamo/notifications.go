package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/herdtrack-api/internal/domain"
)

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNotificationRepo(client *dynamodb.Client, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("notification_id", notificationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(out.Item, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByRecipient returns the recipient's notifications, newest first.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("recipient_id-created_at-index"),
		KeyConditionExpression: aws.String("recipient_id = :rid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rid": &types.AttributeValueMemberS{Value: recipientID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var notifications []domain.Notification
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListPending returns the recipient's pending notifications scheduled
// strictly after now, soonest first.
func (r *NotificationRepo) ListPending(ctx context.Context, recipientID string, now time.Time) ([]domain.Notification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("recipient_id-scheduled_for-index"),
		KeyConditionExpression: aws.String("recipient_id = :rid AND scheduled_for > :now"),
		FilterExpression:       aws.String("#st = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#st": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rid":     &types.AttributeValueMemberS{Value: recipientID},
			":now":     &types.AttributeValueMemberS{Value: rangeBound(now)},
			":pending": &types.AttributeValueMemberS{Value: domain.NotificationPending},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	var notifications []domain.Notification
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindPendingReminder reports whether a pending vaccination_due reminder for
// the same animal, vaccine and due date already exists for the recipient.
func (r *NotificationRepo) FindPendingReminder(ctx context.Context, recipientID, animalID, vaccineID string, dueDate time.Time) (*domain.Notification, error) {
	due := dueDate.UTC().Format(time.RFC3339Nano)
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("recipient_id-scheduled_for-index"),
		KeyConditionExpression: aws.String("recipient_id = :rid AND scheduled_for = :due"),
		FilterExpression:       aws.String("#st = :pending AND #ty = :due_type AND related_animal = :aid AND related_vaccine = :vid"),
		ExpressionAttributeNames: map[string]string{
			"#st": fieldStatus,
			"#ty": "type",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rid":      &types.AttributeValueMemberS{Value: recipientID},
			":due":      &types.AttributeValueMemberS{Value: due},
			":pending":  &types.AttributeValueMemberS{Value: domain.NotificationPending},
			":due_type": &types.AttributeValueMemberS{Value: domain.NotificationVaccinationDue},
			":aid":      &types.AttributeValueMemberS{Value: animalID},
			":vid":      &types.AttributeValueMemberS{Value: vaccineID},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("reminder not found: %w", domain.ErrNotFound)
	}
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(out.Items[0], &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAsRead sets the read flag and timestamp.
func (r *NotificationRepo) MarkAsRead(ctx context.Context, notificationID string, readAt time.Time) error {
	return r.update(ctx, notificationID, map[string]interface{}{
		fieldRead:   true,
		fieldReadAt: readAt.UTC().Format(time.RFC3339Nano),
	})
}

// SetDispatchResult persists the delivery record and final status of a
// dispatch run. The write is conditional on the notification still being
// pending, so of two racing dispatch calls exactly one commits; the loser
// gets ErrConflict and no channel slot is lost.
func (r *NotificationRepo) SetDispatchResult(ctx context.Context, notificationID string, delivery domain.DeliveryStatus, status string) error {
	deliveryAV, err := attributevalue.Marshal(delivery)
	if err != nil {
		return fmt.Errorf("marshal delivery status: %w", err)
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("notification_id", notificationID),
		UpdateExpression:    aws.String("SET #dl = :dl, #st = :st, #ua = :ua"),
		ConditionExpression: aws.String("#st = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#dl": fieldDelivery,
			"#st": fieldStatus,
			"#ua": fieldUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":dl":      deliveryAV,
			":st":      &types.AttributeValueMemberS{Value: status},
			":ua":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":pending": &types.AttributeValueMemberS{Value: domain.NotificationPending},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("notification already dispatched: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// Cancel marks a pending notification cancelled.
func (r *NotificationRepo) Cancel(ctx context.Context, notificationID string) error {
	return r.update(ctx, notificationID, map[string]interface{}{
		fieldStatus: domain.NotificationCancelled,
	})
}

// HardDelete permanently removes a notification. Only the recipient may do
// this; the service enforces it.
func (r *NotificationRepo) HardDelete(ctx context.Context, notificationID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("notification_id", notificationID),
	})
	return err
}

func (r *NotificationRepo) update(ctx context.Context, notificationID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("notification_id", notificationID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
