// Package dashboard is the page-level controller of the links view: it
// loads the account's links, creates new ones and deletes them, keeping a
// local list that mirrors the API.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/patric-chuzhbe/linkdash/internal/apiclient"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/notify"
	"github.com/patric-chuzhbe/linkdash/internal/urlservice"
)

const (
	msgLoaded        = "URLs loaded successfully"
	msgNoURLs        = "No URLs found"
	msgLoadFailed    = "Failed to load your URLs. Please try again."
	msgCreated       = "URL created successfully"
	msgCreateFailed  = "Failed to create short URL. Please try again."
	msgDeleted       = "URL deleted successfully"
	msgDeleteFailed  = "Failed to delete URL. Please try again."
	msgConfirmDelete = "Are you sure you want to delete this URL?"
)

type urlClient interface {
	List(ctx context.Context) ([]models.ShortURL, error)
	Create(ctx context.Context, request models.CreateURLRequest) (*urlservice.CreateResult, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

type Flow struct {
	mu        sync.Mutex
	client    urlClient
	confirmer Confirmer
	notifier  notify.Notifier
	shortBase string

	links      *LinkList
	err        string
	isLoading  bool
	isCreating bool
}

// New returns a flow with an empty list. shortBase is used to render
// short links the API returned without a full URL.
func New(client urlClient, confirmer Confirmer, notifier notify.Notifier, shortBase string) *Flow {
	return &Flow{
		client:    client,
		confirmer: confirmer,
		notifier:  notifier,
		shortBase: strings.TrimRight(shortBase, "/"),
		links:     NewLinkList(),
	}
}

// Mount loads the account's links. A 404 means the account has none yet
// and is not an error.
func (f *Flow) Mount(ctx context.Context) {
	f.mu.Lock()
	f.isLoading = true
	f.mu.Unlock()

	links, err := f.client.List(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.isLoading = false

	switch {
	case err == nil:
		f.links.Replace(links)
		f.err = ""
		f.notifier.Success(msgLoaded)

	case apiclient.IsNotFound(err):
		f.links.Replace(nil)
		f.err = ""
		f.notifier.Error(msgNoURLs)

	default:
		f.err = msgLoadFailed
		f.notifier.Error(msgLoadFailed)
	}
}

// Create shortens originalURL, optionally under alias. The list is
// updated only once the API confirms. Failures are returned so the caller
// can keep the form input.
func (f *Flow) Create(ctx context.Context, originalURL, alias string) (*models.ShortURL, error) {
	request := models.CreateURLRequest{OriginalURL: originalURL, CustomAlias: alias}
	if err := models.Validate(request); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.isCreating = true
	f.err = ""
	f.mu.Unlock()

	result, err := f.client.Create(ctx, request)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.isCreating = false

	if err != nil {
		f.err = apiclient.MessageOr(err, msgCreateFailed)
		f.notifier.Error(f.err)
		return nil, err
	}

	if result.Created() || !f.links.Contains(result.URL.ID) {
		f.links.Prepend(result.URL)
	}
	f.notifier.Success(msgCreated)

	created := result.URL

	return &created, nil
}

// Delete removes the link with id after the user confirms. It reports
// whether the link was deleted; a declined confirmation is not an error.
func (f *Flow) Delete(ctx context.Context, id string) (bool, error) {
	if !f.confirmer.Confirm(msgConfirmDelete) {
		return false, nil
	}

	err := f.client.Delete(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.err = msgDeleteFailed
		f.notifier.Error(msgDeleteFailed)
		return false, err
	}

	f.links.RemoveByID(id)
	f.notifier.Success(msgDeleted)

	return true, nil
}

func (f *Flow) Links() []models.ShortURL {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.links.Items()
}

func (f *Flow) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.err
}

func (f *Flow) ClearError() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = ""
}

func (f *Flow) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.isLoading
}

func (f *Flow) IsCreating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.isCreating
}

// ShortLink returns the full short URL of u.
func (f *Flow) ShortLink(u models.ShortURL) string {
	if u.ShortURL != "" {
		return u.ShortURL
	}

	return f.shortBase + "/" + u.ShortID
}
