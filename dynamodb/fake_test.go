package dynamodb_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	sfdynamodb "github.com/storefront/storefront/dynamodb"
)

type item = map[string]types.AttributeValue

// fakeClient keeps tables in memory and understands the expressions the
// service builds: a projection of placeholder names and a SET of
// name/value placeholder pairs guarded by attribute_exists on the key.
type fakeClient struct {
	mu     sync.Mutex
	tables map[string]map[string]item
}

var _ sfdynamodb.Client = (*fakeClient)(nil)

func newFakeClient(tables ...string) *fakeClient {
	c := &fakeClient{tables: map[string]map[string]item{}}
	for _, t := range tables {
		c.tables[t] = map[string]item{}
	}
	return c
}

func (c *fakeClient) table(name *string) (map[string]item, error) {
	t, ok := c.tables[aws.ToString(name)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}
	}
	return t, nil
}

func keyOf(key item) string {
	s, _ := key["id"].(*types.AttributeValueMemberS)
	if s == nil {
		return ""
	}
	return s.Value
}

func (c *fakeClient) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	t[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (c *fakeClient) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: t[keyOf(in.Key)]}, nil
}

func (c *fakeClient) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}

	var attrs []string
	if p := aws.ToString(in.ProjectionExpression); p != "" {
		for _, ph := range strings.Split(p, ",") {
			attrs = append(attrs, in.ExpressionAttributeNames[strings.TrimSpace(ph)])
		}
	}

	out := &dynamodb.ScanOutput{}
	for _, it := range t {
		if in.Limit != nil && int32(len(out.Items)) >= *in.Limit {
			break
		}
		if attrs == nil {
			out.Items = append(out.Items, it)
			continue
		}
		projected := item{}
		for _, a := range attrs {
			if v, ok := it[a]; ok {
				projected[a] = v
			}
		}
		out.Items = append(out.Items, projected)
	}
	return out, nil
}

func (c *fakeClient) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}

	id := keyOf(in.Key)
	current, ok := t[id]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}

	expr := strings.TrimSpace(aws.ToString(in.UpdateExpression))
	if !strings.HasPrefix(expr, "SET ") {
		return nil, fmt.Errorf("unsupported update expression %q", expr)
	}

	updated := item{}
	for k, v := range current {
		updated[k] = v
	}
	for _, assign := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		parts := strings.Split(assign, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported assignment %q", assign)
		}
		name := in.ExpressionAttributeNames[strings.TrimSpace(parts[0])]
		updated[name] = in.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
	}
	t[id] = updated

	return &dynamodb.UpdateItemOutput{Attributes: updated}, nil
}

func (c *fakeClient) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	delete(t, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}
