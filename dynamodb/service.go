package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/benbjohnson/clock"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kit/platform/errors"
)

var (
	_ storefront.UserService    = (*Service)(nil)
	_ storefront.ProductService = (*Service)(nil)
	_ storefront.OrderService   = (*Service)(nil)
)

// Service implements the storefront services on DynamoDB tables.
type Service struct {
	client Client
	tables Tables
	idGen  storefront.IDGenerator
	clock  clock.Clock
}

// Option configures a Service.
type Option func(*Service)

// WithTables overrides the table names. Empty names keep their default.
func WithTables(t Tables) Option {
	return func(s *Service) {
		if t.Users != "" {
			s.tables.Users = t.Users
		}
		if t.Products != "" {
			s.tables.Products = t.Products
		}
		if t.Orders != "" {
			s.tables.Orders = t.Orders
		}
	}
}

// WithIDGenerator sets the generator used for new record ids.
func WithIDGenerator(g storefront.IDGenerator) Option {
	return func(s *Service) {
		s.idGen = g
	}
}

// WithClock sets the clock used to stamp created_at.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService returns a Service that issues its requests through client.
func NewService(client Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		tables: DefaultTables(),
		idGen:  storefront.UUIDGenerator{},
		clock:  clock.New(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func (s *Service) putItem(ctx context.Context, table, op string, v interface{}) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return errors.ErrInternal(err, "dynamodb/"+op)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	return storageError(err, op)
}

// getItem reads the item with id into out. A missing item yields notFound.
func (s *Service) getItem(ctx context.Context, table, op, kind, id string, notFound error, out interface{}) error {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       itemKey(id),
	})
	if err != nil {
		return storageError(err, op)
	}
	if len(res.Item) == 0 {
		return notFound
	}

	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return errCorruptItem(kind, err)
	}
	return nil
}

// scan reads a single page of at most limit items, projected onto attrs.
func (s *Service) scan(ctx context.Context, table, op, kind string, attrs []string, limit int32, out interface{}) error {
	names := make([]expression.NameBuilder, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, expression.Name(a))
	}
	var proj expression.ProjectionBuilder
	proj = proj.AddNames(names...)

	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return errors.ErrInternal(err, "dynamodb/"+op)
	}

	res, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(table),
		Limit:                    aws.Int32(limit),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return storageError(err, op)
	}

	if err := attributevalue.UnmarshalListOfMaps(res.Items, out); err != nil {
		return errCorruptItem(kind, err)
	}
	return nil
}

func (s *Service) deleteItem(ctx context.Context, table, op, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       itemKey(id),
	})
	return storageError(err, op)
}

// CreateUser validates c and stores it as a new user.
func (s *Service) CreateUser(ctx context.Context, c storefront.UserCreate) (*storefront.User, error) {
	if err := c.OK(); err != nil {
		return nil, err
	}

	u := c.User(s.idGen.ID(), s.clock.Now())
	if err := s.putItem(ctx, s.tables.Users, storefront.OpCreateUser, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindUserByID returns a single user by ID.
func (s *Service) FindUserByID(ctx context.Context, id string) (*storefront.User, error) {
	u := &storefront.User{}
	if err := s.getItem(ctx, s.tables.Users, storefront.OpFindUserByID, "user", id, storefront.ErrUserNotFound, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindUsers returns a single scan page of at most storefront.MaxUsersListed
// users.
func (s *Service) FindUsers(ctx context.Context) ([]*storefront.User, error) {
	users := []*storefront.User{}
	if err := s.scan(ctx, s.tables.Users, storefront.OpFindUsers, "user", storefront.UserListAttributes, storefront.MaxUsersListed, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser sets email, username and picture on an existing user and
// returns the user as stored afterwards.
func (s *Service) UpdateUser(ctx context.Context, id string, upd storefront.UserUpdate) (*storefront.User, error) {
	if err := upd.OK(); err != nil {
		return nil, err
	}

	picture := upd.Picture
	if picture == nil {
		picture = []string{}
	}
	update := expression.
		Set(expression.Name("email"), expression.Value(upd.Email)).
		Set(expression.Name("username"), expression.Value(upd.Username)).
		Set(expression.Name("picture"), expression.Value(picture))
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return nil, errors.ErrInternal(err, "dynamodb/"+storefront.OpUpdateUser)
	}

	res, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tables.Users),
		Key:                       itemKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if isConditionalCheckFailed(err) {
		return nil, storefront.ErrUserNotFound
	}
	if err != nil {
		return nil, storageError(err, storefront.OpUpdateUser)
	}

	u := &storefront.User{}
	if err := attributevalue.UnmarshalMap(res.Attributes, u); err != nil {
		return nil, errCorruptItem("user", err)
	}
	return u, nil
}

// DeleteUser removes the user with id. Deleting a missing user is not an error.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.deleteItem(ctx, s.tables.Users, storefront.OpDeleteUser, id)
}

// CreateProduct validates c and stores it as a new product.
func (s *Service) CreateProduct(ctx context.Context, c storefront.ProductCreate) (*storefront.Product, error) {
	if err := c.OK(); err != nil {
		return nil, err
	}

	p := c.Product(s.idGen.ID(), s.clock.Now())
	if err := s.putItem(ctx, s.tables.Products, storefront.OpCreateProduct, p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindProductByID returns a single product by ID.
func (s *Service) FindProductByID(ctx context.Context, id string) (*storefront.Product, error) {
	p := &storefront.Product{}
	if err := s.getItem(ctx, s.tables.Products, storefront.OpFindProductByID, "product", id, storefront.ErrProductNotFound, p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindProducts returns a single scan page of at most
// storefront.MaxProductsListed products.
func (s *Service) FindProducts(ctx context.Context) ([]*storefront.Product, error) {
	products := []*storefront.Product{}
	if err := s.scan(ctx, s.tables.Products, storefront.OpFindProducts, "product", storefront.ProductListAttributes, storefront.MaxProductsListed, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// DeleteProduct removes the product with id.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteItem(ctx, s.tables.Products, storefront.OpDeleteProduct, id)
}

// CreateOrder validates c and stores it as a new order.
func (s *Service) CreateOrder(ctx context.Context, c storefront.OrderCreate) (*storefront.Order, error) {
	if err := c.OK(); err != nil {
		return nil, err
	}

	o := c.Order(s.idGen.ID(), s.clock.Now())
	if err := s.putItem(ctx, s.tables.Orders, storefront.OpCreateOrder, o); err != nil {
		return nil, err
	}
	return o, nil
}

// FindOrderByID returns a single order by ID.
func (s *Service) FindOrderByID(ctx context.Context, id string) (*storefront.Order, error) {
	o := &storefront.Order{}
	if err := s.getItem(ctx, s.tables.Orders, storefront.OpFindOrderByID, "order", id, storefront.ErrOrderNotFound, o); err != nil {
		return nil, err
	}
	return o, nil
}
