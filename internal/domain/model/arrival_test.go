package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileArrival(t *testing.T) {
	a := FileArrival{Bucket: "landing", Key: "inbound/acme/inbox/f.csv"}
	require.NoError(t, a.Validate())
	assert.Equal(t, UnknownExecutionID, a.JobID())

	a.ExecutionID = "exec-42"
	assert.Equal(t, "exec-42", a.JobID())

	assert.Error(t, (&FileArrival{Key: "k"}).Validate())
	assert.Error(t, (&FileArrival{Bucket: "b"}).Validate())
	assert.NoError(t, (&FileArrival{Bucket: "b", Key: "inbound/acme/"}).Validate(), "prefix-like keys degrade downstream")
}

func TestParseBucketKind(t *testing.T) {
	k, err := ParseBucketKind("landing")
	require.NoError(t, err)
	assert.Equal(t, BucketKindLanding, k)

	k, err = ParseBucketKind("target")
	require.NoError(t, err)
	assert.Equal(t, BucketKindTarget, k)

	_, err = ParseBucketKind("archive")
	assert.ErrorIs(t, err, ErrInvalidBucketKind)
}
