package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"batch_number": "B-42"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "batch_number"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"notes":         "limping after dose",
		"batch_number":  "B-42",
		"next_due_date": "2024-07-01",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: batch_number < next_due_date < notes
	assert.Equal(t, "batch_number", ue1.Names["#f0"])
	assert.Equal(t, "next_due_date", ue1.Names["#f1"])
	assert.Equal(t, "notes", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"read": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestRangeBound_FixedWidthRegardlessOfSubsecond(t *testing.T) {
	whole := time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC)
	fractional := whole.Add(500 * time.Millisecond)

	assert.Equal(t, "2024-07-15T10:30:00Z", rangeBound(whole))
	assert.Equal(t, rangeBound(whole), rangeBound(fractional))
	assert.Len(t, rangeBound(fractional), len("2024-07-15T10:30:00Z"))
}

func TestRangeBound_SortsChronologicallyAsString(t *testing.T) {
	now := time.Date(2024, 7, 15, 10, 30, 0, 300_000_000, time.UTC)

	// A date stored at the bound's own second must not compare greater.
	// An RFC3339Nano bound ("...:00.3Z") sorts below the stored
	// "...:00Z" ('.' < 'Z'), so a past due date would leak into the
	// "strictly after now" range.
	stored := "2024-07-15T10:30:00Z"
	assert.False(t, stored > rangeBound(now))

	next := now.Add(time.Second)
	assert.Less(t, rangeBound(now), next.UTC().Format(time.RFC3339))
}

func TestRangeBound_NormalizesToUTC(t *testing.T) {
	cet := time.FixedZone("CET", 60*60)
	local := time.Date(2024, 7, 15, 11, 30, 0, 0, cet)
	assert.Equal(t, "2024-07-15T10:30:00Z", rangeBound(local))
}
