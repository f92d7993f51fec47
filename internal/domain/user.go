package domain

import "strings"

// User пользователь. Friends собирается при чтении из таблицы дружбы.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday Date    `json:"birthday"`
	Friends  []int64 `json:"friends"`
}

// ApplyDefaultName подставляет логин, если имя пустое.
func (u *User) ApplyDefaultName() {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}

func (u *User) Clone() *User {
	c := *u
	c.Friends = append(make([]int64, 0, len(u.Friends)), u.Friends...)
	return &c
}

// EmailKey ключ уникальности email (без учета регистра).
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUserRequest тело POST /users
type NewUserRequest struct {
	Email    string `json:"email" validate:"notblank,contains=@"`
	Login    string `json:"login" validate:"notblank,nowhitespace"`
	Name     string `json:"name"`
	Birthday Date   `json:"birthday" validate:"notfuture"`
}

func (r NewUserRequest) ToUser() *User {
	u := &User{
		Email:    strings.TrimSpace(r.Email),
		Login:    r.Login,
		Name:     r.Name,
		Birthday: r.Birthday,
	}
	u.ApplyDefaultName()
	return u
}

// UpdateUserRequest тело PUT /users, nil поля не меняются.
type UpdateUserRequest struct {
	ID       int64   `json:"id" validate:"gt=0"`
	Email    *string `json:"email" validate:"omitempty,notblank,contains=@"`
	Login    *string `json:"login" validate:"omitempty,notblank,nowhitespace"`
	Name     *string `json:"name"`
	Birthday *Date   `json:"birthday" validate:"omitempty,notfuture"`
}

func (r UpdateUserRequest) Apply(u *User) {
	if r.Email != nil {
		u.Email = strings.TrimSpace(*r.Email)
	}
	if r.Login != nil {
		u.Login = *r.Login
	}
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Birthday != nil {
		u.Birthday = *r.Birthday
	}
	u.ApplyDefaultName()
}
