package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/shule/core/user"
)

type userRepository struct {
	users *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{users: db.Collection(userCollection)}
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string) error {
	var existing user.User
	err := repo.users.FindOne(ctx, bson.M{"username": username}).Decode(&existing)
	if err == nil {
		return user.ErrUsernameExists
	}
	if err != mongo.ErrNoDocuments {
		return errors.Wrap(err, "checking username uniqueness")
	}

	err = repo.users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return user.ErrEmailExists
	}
	if err != mongo.ErrNoDocuments {
		return errors.Wrap(err, "checking email uniqueness")
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.users.InsertOne(ctx, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr.ID = res.InsertedID.(primitive.ObjectID)
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (user.User, error) {
	return repo.getUser(ctx, bson.M{"_id": id})
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.getUser(ctx, bson.M{"username": username})
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getUser(ctx, bson.M{"email": email})
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	if _, err := repo.users.ReplaceOne(ctx, bson.M{"_id": usr.ID}, usr); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (repo *userRepository) getUser(ctx context.Context, filter bson.M) (user.User, error) {
	var usr user.User
	if err := repo.users.FindOne(ctx, filter).Decode(&usr); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return usr, nil
}
