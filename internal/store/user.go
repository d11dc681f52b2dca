package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healthcare-appointments-api/internal/model"
)

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Count(&n).Error
	return n > 0, err
}

// CreateUser inserts u and, when shell is non-nil, the record shell builds
// for the new user id. Both rows commit together.
func (s *Store) CreateUser(ctx context.Context, u *model.User, shell func(userID uint) any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if shell == nil {
			return nil
		}
		return tx.Omit(clause.Associations).Create(shell(u.ID)).Error
	})
	return translate(err)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(u).Error; err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*model.User, error) {
	u := &model.User{}
	if err := s.db.WithContext(ctx).First(u, id).Error; err != nil {
		return nil, translate(err)
	}
	return u, nil
}
