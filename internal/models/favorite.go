package models

import (
	"fmt"
	"time"
)

// TargetKind — закрытый набор типов сущностей, на которые может указывать
// избранное. Новый тип добавляется только вместе с миграцией схемы.
type TargetKind string

const (
	TargetKindPost TargetKind = "post"
	TargetKindUser TargetKind = "user"
)

// ValidTargetKinds список валидных типов целей избранного
var ValidTargetKinds = map[TargetKind]struct{}{
	TargetKindPost: {},
	TargetKindUser: {},
}

// ParseTargetKind превращает сырую строку из запроса в типизированный тег.
// За пределами этой функции тег не существует как произвольная строка.
func ParseTargetKind(raw string) (TargetKind, error) {
	kind := TargetKind(raw)
	if _, ok := ValidTargetKinds[kind]; !ok {
		return "", fmt.Errorf("недопустимый тип цели %q, ожидается 'post' или 'user'", raw)
	}
	return kind, nil
}

// TargetRef — типизированная ссылка (тег, идентификатор) на цель избранного.
type TargetRef struct {
	Kind TargetKind
	ID   int64
}

// Favorite описывает полиморфную связь «пользователь добавил цель в избранное».
type Favorite struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	ParentType TargetKind `db:"parent_type" json:"parent_type"`
	ParentID   int64      `db:"parent_id" json:"parent_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Ref возвращает типизированную ссылку на цель избранного.
func (f *Favorite) Ref() TargetRef {
	return TargetRef{Kind: f.ParentType, ID: f.ParentID}
}

// LegacyFavorite — строка избранного в дореформенной схеме, где цель всегда
// была постом и хранилась в колонке post_id. Используется только бэкфиллом.
type LegacyFavorite struct {
	ID     int64 `db:"id"`
	UserID int64 `db:"user_id"`
	PostID int64 `db:"post_id"`
}
