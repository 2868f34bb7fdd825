package repository

import (
	"apparel_store/internal/models"

	"gorm.io/gorm"
)

type SettingRepository interface {
	Get(settingName string) (*models.StoreSetting, error)
	Upsert(setting *models.StoreSetting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(settingName string) (*models.StoreSetting, error) {
	var setting models.StoreSetting
	err := r.db.Where("setting_name = ? AND is_active = ?", settingName, true).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) Upsert(setting *models.StoreSetting) error {
	var existing models.StoreSetting
	err := r.db.Where("setting_name = ?", setting.SettingName).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(setting).Error
	}
	if err != nil {
		return err
	}
	existing.Amount = setting.Amount
	existing.IsActive = setting.IsActive
	return r.db.Save(&existing).Error
}
