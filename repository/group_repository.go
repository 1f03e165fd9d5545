package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Get(groupID uint) (*entity.Group, error) {
	var g entity.Group
	if err := r.DB.First(&g, groupID).Error; err != nil {
		return nil, err
	}
	return &g, nil
}
