package entity

// AppSetting is a single key/value configuration entry
type AppSetting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

// TableName returns the table name for the AppSetting model
func (AppSetting) TableName() string {
	return "app_settings"
}
