package domain

import "time"

type Profile struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	Username    string    `json:"username" gorm:"size:64"`
	FullName    string    `json:"full_name" gorm:"size:128"`
	Bio         string    `json:"bio"`
	Phone       string    `json:"phone" gorm:"size:32"`
	DateOfBirth string    `json:"date_of_birth" gorm:"size:10"`
	AvatarURL   string    `json:"avatar_url" gorm:"size:1024"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ProfileChanges holds the editable profile fields. Nil fields are left as
// they are.
type ProfileChanges struct {
	FullName    *string `json:"full_name,omitempty"`
	Username    *string `json:"username,omitempty" validate:"omitempty,min=3"`
	Bio         *string `json:"bio,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// Apply copies the set fields onto p and returns them by column name.
func (c ProfileChanges) Apply(p *Profile) map[string]string {
	changed := map[string]string{}
	set := func(col string, src *string, dst *string) {
		if src != nil {
			*dst = *src
			changed[col] = *src
		}
	}
	set("full_name", c.FullName, &p.FullName)
	set("username", c.Username, &p.Username)
	set("bio", c.Bio, &p.Bio)
	set("phone", c.Phone, &p.Phone)
	set("date_of_birth", c.DateOfBirth, &p.DateOfBirth)
	set("avatar_url", c.AvatarURL, &p.AvatarURL)
	return changed
}
