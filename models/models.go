package models

// All lists every entity in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &RefreshToken{}, &Post{}, &Tag{}, &PostTag{}, &Like{}}
}
