package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEnable           = "enable"
	fieldUpdatedAt        = "updated_at"
	fieldRefreshToken     = "refresh_token"
	fieldRefreshExpiresAt = "refresh_expires_at"
	fieldRead             = "read"
	fieldReadAt           = "read_at"
	fieldStatus           = "status"
	fieldDelivery         = "delivery_status"
	fieldFollowUpDate     = "follow_up_date"
)
