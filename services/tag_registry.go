package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/postboard/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTagNameLength = 20

// TagRegistry normalizes hashtags and owns Tag rows and their links to posts.
type TagRegistry struct {
	DB *gorm.DB
}

func NewTagRegistry(db *gorm.DB) *TagRegistry {
	return &TagRegistry{DB: db}
}

// WithTx returns a registry whose statements run inside tx.
func (r *TagRegistry) WithTx(tx *gorm.DB) *TagRegistry {
	return &TagRegistry{DB: tx}
}

// ParseTagString yields the tag names in a string such as "#sns,#like".
// Commas are dropped, the text is split on '#', and whatever precedes the first
// '#' is ignored. Empty names are skipped. The sequence can be ranged over any
// number of times.
func ParseTagString(raw string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_, rest, found := strings.Cut(raw, "#")
		for found {
			var segment string
			segment, rest, found = strings.Cut(rest, "#")

			name := strings.TrimSpace(strings.ReplaceAll(segment, ",", ""))
			if name == "" {
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}

// ValidateTagString checks every name in raw without touching the database.
func ValidateTagString(raw string) error {
	verr := &ValidationError{}
	for name := range ParseTagString(raw) {
		if err := validateTagName(name); err != nil {
			verr.Add("tags", err.Error())
		}
	}
	if verr.empty() {
		return nil
	}
	return verr
}

func validateTagName(name string) error {
	if err := validate.Var(name, fmt.Sprintf("required,max=%d", maxTagNameLength)); err != nil {
		return fmt.Errorf("tag %q must be 1 to %d characters", name, maxTagNameLength)
	}
	return nil
}

// Resolve returns the tag called name, creating it if needed. Creation is an
// INSERT ... ON CONFLICT DO NOTHING against the unique name index, so two
// concurrent resolutions of the same name end up with one row.
func (r *TagRegistry) Resolve(ctx context.Context, name string) (*models.Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, NewValidationError("tags", err.Error())
	}

	tag := models.Tag{Name: name}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&tag).Error
	if err != nil {
		return nil, fmt.Errorf("insert tag %q: %w", name, err)
	}
	if tag.ID != 0 {
		return &tag, nil
	}

	// Lost the race or the tag already existed.
	return r.FindByName(ctx, name)
}

// FindByName looks a tag up by exact name.
func (r *TagRegistry) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find tag %q: %w", name, err)
	}
	return &tag, nil
}

// Link attaches a tag to a post. Linking an already linked pair is a no-op.
func (r *TagRegistry) Link(ctx context.Context, postID, tagID uint) error {
	link := models.PostTag{PostID: postID, TagID: tagID}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
	if err != nil {
		return fmt.Errorf("link tag %d to post %d: %w", tagID, postID, err)
	}
	return nil
}

// ResolveAndLink resolves every tag in raw and links it to the post.
func (r *TagRegistry) ResolveAndLink(ctx context.Context, postID uint, raw string) error {
	for name := range ParseTagString(raw) {
		tag, err := r.Resolve(ctx, name)
		if err != nil {
			return err
		}
		if err := r.Link(ctx, postID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

// NamesForPost returns the names of the tags linked to a post, in link order.
func (r *TagRegistry) NamesForPost(ctx context.Context, postID uint) ([]string, error) {
	var names []string
	err := r.DB.WithContext(ctx).
		Model(&models.Tag{}).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("post_tags.id").
		Pluck("tags.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("tags for post %d: %w", postID, err)
	}
	return names, nil
}

// HashtagsForPost returns the tags of a post as "#name", the form listings use.
func (r *TagRegistry) HashtagsForPost(ctx context.Context, postID uint) ([]string, error) {
	names, err := r.NamesForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	hashtags := make([]string, len(names))
	for i, name := range names {
		hashtags[i] = "#" + name
	}
	return hashtags, nil
}
