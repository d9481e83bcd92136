package dashboard

import (
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/linkdash/internal/models"
)

// LinkList is the locally held, ordered copy of the account's links,
// newest first. It changes only through Replace, Prepend and RemoveByID.
type LinkList struct {
	items []models.ShortURL
}

func NewLinkList(items ...models.ShortURL) *LinkList {
	l := &LinkList{}
	l.Replace(items)

	return l
}

// Replace swaps the whole list for items, as returned by a listing.
func (l *LinkList) Replace(items []models.ShortURL) {
	l.items = append([]models.ShortURL{}, items...)
}

func (l *LinkList) Prepend(u models.ShortURL) {
	l.items = append([]models.ShortURL{u}, l.items...)
}

// RemoveByID drops every link with the given id and reports whether any
// was present.
func (l *LinkList) RemoveByID(id string) bool {
	if !l.Contains(id) {
		return false
	}

	l.items = funk.Filter(l.items, func(u models.ShortURL) bool {
		return u.ID != id
	}).([]models.ShortURL)

	return true
}

func (l *LinkList) Contains(id string) bool {
	return funk.Find(l.items, func(u models.ShortURL) bool {
		return u.ID == id
	}) != nil
}

// Items returns a copy of the list.
func (l *LinkList) Items() []models.ShortURL {
	return append([]models.ShortURL{}, l.items...)
}
