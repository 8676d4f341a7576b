// Package db publishes level metadata to a DynamoDB table and looks it up
// by level id.
package db

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/ssedit/level"
)

// BatchGetItem accepts at most this many keys per call.
const maxBatch = 100

var ErrNoID = errors.New("level has no id to publish under")

type Metadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Author      string `json:"author"`
	Format      string `json:"format"`
	Difficulty  string `json:"difficulty"`
	Notes       int    `json:"notes"`
	LengthMs    int    `json:"length_ms"`
	Fingerprint string `json:"fingerprint"`
}

func MetadataFor(l *level.Level) Metadata {
	return Metadata{
		ID:          l.ID,
		Name:        l.Name,
		Author:      l.Author,
		Format:      l.Format.String(),
		Difficulty:  l.Difficulty.String(),
		Notes:       l.Notes.Count(),
		LengthMs:    l.Length(),
		Fingerprint: l.Fingerprint().String(),
	}
}

type Index struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewIndex(client dynamodbiface.DynamoDBAPI, table string) *Index {
	return &Index{client: client, table: table}
}

// Connect opens a session against endpoint, a local DynamoDB by default.
func Connect(endpoint, region, table string) (*Index, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a DynamoDB session: %w", err)
	}
	return NewIndex(dynamodb.New(sess), table), nil
}

func toItem(m Metadata) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK":          {S: aws.String(m.ID)},
		"Name":        {S: aws.String(m.Name)},
		"Author":      {S: aws.String(m.Author)},
		"Format":      {S: aws.String(m.Format)},
		"Difficulty":  {S: aws.String(m.Difficulty)},
		"Notes":       {N: aws.String(strconv.Itoa(m.Notes))},
		"LengthMs":    {N: aws.String(strconv.Itoa(m.LengthMs))},
		"Fingerprint": {S: aws.String(m.Fingerprint)},
	}
}

func fromItem(item map[string]*dynamodb.AttributeValue) Metadata {
	str := func(key string) string {
		if v, ok := item[key]; ok && v.S != nil {
			return *v.S
		}
		return ""
	}
	num := func(key string) int {
		if v, ok := item[key]; ok && v.N != nil {
			n, _ := strconv.Atoi(*v.N)
			return n
		}
		return 0
	}
	return Metadata{
		ID:          str("PK"),
		Name:        str("Name"),
		Author:      str("Author"),
		Format:      str("Format"),
		Difficulty:  str("Difficulty"),
		Notes:       num("Notes"),
		LengthMs:    num("LengthMs"),
		Fingerprint: str("Fingerprint"),
	}
}

// Publish stores l's metadata under its id, overwriting earlier versions.
func (x *Index) Publish(l *level.Level) (Metadata, error) {
	if l.ID == "" {
		return Metadata{}, ErrNoID
	}
	m := MetadataFor(l)
	_, err := x.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(x.table),
		Item:      toItem(m),
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("error from DynamoDB: %w", err)
	}
	return m, nil
}

// Lookup fetches the metadata of every id that has been published.
// Unknown ids are absent from the result.
func (x *Index) Lookup(ids []string) (map[string]Metadata, error) {
	res := make(map[string]Metadata)
	for start := 0; start < len(ids); start += maxBatch {
		end := min(start+maxBatch, len(ids))
		var keys []map[string]*dynamodb.AttributeValue
		for _, id := range ids[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(id)},
			})
		}
		out, err := x.client.BatchGetItem(&dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				x.table: {Keys: keys},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("error from DynamoDB: %w", err)
		}
		for _, item := range out.Responses[x.table] {
			m := fromItem(item)
			res[m.ID] = m
		}
	}
	return res, nil
}
