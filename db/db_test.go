package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items of a single table keyed by PK.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	batches int
	err     error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches++
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		if len(ka.Keys) > maxBatch {
			return nil, fmt.Errorf("too many keys: %d", len(ka.Keys))
		}
		for _, key := range ka.Keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func testLevel(name string) *level.Level {
	l := level.New(model.Structured)
	l.SetNameAndAuthor(name, "someone")
	l.Difficulty = model.Medium
	l.Notes.Insert(900, model.Position{X: 1, Y: 1})
	return l
}

func TestPublishAndLookup(t *testing.T) {
	fake := newFakeDynamo()
	idx := NewIndex(fake, "levels")

	l := testLevel("first")
	m, err := idx.Publish(l)
	require.NoError(t, err)
	assert.Equal(t, "someone_first", m.ID)

	got, err := idx.Lookup([]string{"someone_first", "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Metadata{
		ID:          "someone_first",
		Name:        "first",
		Author:      "someone",
		Format:      "SS+ Map",
		Difficulty:  "Medium",
		Notes:       1,
		LengthMs:    900,
		Fingerprint: l.Fingerprint().String(),
	}, got["someone_first"])
}

func TestLookupBatches(t *testing.T) {
	fake := newFakeDynamo()
	idx := NewIndex(fake, "levels")
	var ids []string
	for i := 0; i < 250; i++ {
		l := testLevel(fmt.Sprintf("level %d", i))
		_, err := idx.Publish(l)
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}

	got, err := idx.Lookup(ids)
	require.NoError(t, err)
	assert.Len(t, got, 250)
	assert.Equal(t, 3, fake.batches)

	got, err = idx.Lookup(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPublishErrors(t *testing.T) {
	idx := NewIndex(newFakeDynamo(), "levels")
	_, err := idx.Publish(level.New(model.Structured))
	assert.ErrorIs(t, err, ErrNoID)

	fake := newFakeDynamo()
	fake.err = errors.New("throttled")
	idx = NewIndex(fake, "levels")
	_, err = idx.Publish(testLevel("x"))
	assert.ErrorContains(t, err, "throttled")
	_, err = idx.Lookup([]string{"x"})
	assert.ErrorContains(t, err, "throttled")
}
