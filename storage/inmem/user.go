package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(_ context.Context, username, email string) error {
	repo.db.users.mutex.RLock()
	defer repo.db.users.mutex.RUnlock()

	for _, usr := range repo.db.users.table {
		if usr.Username == username {
			return user.ErrUsernameExists
		}
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.users.mutex.Lock()
	defer repo.db.users.mutex.Unlock()

	usr.ID = primitive.NewObjectID()
	repo.db.users.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id primitive.ObjectID) (user.User, error) {
	repo.db.users.mutex.RLock()
	defer repo.db.users.mutex.RUnlock()

	if usr, ok := repo.db.users.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	repo.db.users.mutex.RLock()
	defer repo.db.users.mutex.RUnlock()

	for _, usr := range repo.db.users.table {
		if usr.Username == username {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.users.mutex.RLock()
	defer repo.db.users.mutex.RUnlock()

	for _, usr := range repo.db.users.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.users.mutex.Lock()
	defer repo.db.users.mutex.Unlock()

	if _, ok := repo.db.users.table[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.db.users.table[usr.ID] = &usr
	return usr, nil
}
