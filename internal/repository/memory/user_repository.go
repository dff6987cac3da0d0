package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type userRepository struct {
	u *unitOfWork
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.u.write(func(d *dataset) error {
		for _, existing := range d.users {
			if strings.EqualFold(existing.Email, user.Email) {
				return fmt.Errorf("users: email %q already exists", user.Email)
			}
		}
		if user.Id == uuid.Nil {
			user.Id = uuid.New()
		}
		now := time.Now()
		user.CreatedAt, user.UpdatedAt = now, now
		d.users[user.Id] = *user
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var found *entity.User
	err := r.u.read(func(d *dataset) error {
		if u, ok := d.users[id]; ok {
			found = &u
		}
		return nil
	})
	return found, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var found *entity.User
	err := r.u.read(func(d *dataset) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				found = &u
				return nil
			}
		}
		return nil
	})
	return found, err
}
