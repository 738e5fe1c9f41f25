// Package db looks up catalog metadata for score files in DynamoDB. The
// catalog fills in a title or composer that the file itself lacks.
package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/songforge/model"
)

// DynamoDB rejects BatchGetItem requests with more keys than this.
const maxBatchKeys = 100

const maxAttempts = 3

type Catalog struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewCatalog(client dynamodbiface.DynamoDBAPI, table string) *Catalog {
	return &Catalog{client: client, table: table}
}

func NewCatalogFromConfig(region, endpoint, table string) (*Catalog, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return NewCatalog(dynamodb.New(sess), table), nil
}

// Lookup returns catalog entries keyed by file name. Names missing from the
// catalog are absent from the result.
func (c *Catalog) Lookup(ctx context.Context, filenames []string) (map[string]model.ScoreMetadata, error) {
	res := make(map[string]model.ScoreMetadata)
	for start := 0; start < len(filenames); start += maxBatchKeys {
		end := start + maxBatchKeys
		if end > len(filenames) {
			end = len(filenames)
		}
		if err := c.lookupBatch(ctx, filenames[start:end], res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *Catalog) lookupBatch(ctx context.Context, filenames []string, res map[string]model.ScoreMetadata) error {
	var keys []map[string]*dynamodb.AttributeValue
	seen := make(map[string]bool)
	for _, filename := range filenames {
		if seen[filename] {
			continue
		}
		seen[filename] = true
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(filename)},
		})
	}

	requests := map[string]*dynamodb.KeysAndAttributes{
		c.table: {Keys: keys},
	}
	for attempt := 0; attempt < maxAttempts && len(requests) > 0; attempt++ {
		out, err := c.client.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{RequestItems: requests})
		if err != nil {
			return fmt.Errorf("error from DynamoDB: %w", err)
		}
		for _, item := range out.Responses[c.table] {
			pk := stringAttr(item, "PK")
			if pk == "" {
				continue
			}
			res[pk] = model.ScoreMetadata{
				Title:    stringAttr(item, "Title"),
				Composer: composer(item),
			}
		}
		requests = out.UnprocessedKeys
	}
	return nil
}

func composer(item map[string]*dynamodb.AttributeValue) string {
	if v := stringAttr(item, "Composer"); v != "" {
		return v
	}
	return stringAttr(item, "Artist")
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	v, ok := item[name]
	if !ok || v == nil || v.S == nil {
		return ""
	}
	return *v.S
}

// Merge keeps what the score already says and takes the rest from the catalog.
func Merge(existing *model.ScoreMetadata, found model.ScoreMetadata) *model.ScoreMetadata {
	var md model.ScoreMetadata
	if existing != nil {
		md = *existing
	}
	if md.Title == "" {
		md.Title = found.Title
	}
	if md.Composer == "" {
		md.Composer = found.Composer
	}
	if md == (model.ScoreMetadata{}) {
		return existing
	}
	return &md
}
