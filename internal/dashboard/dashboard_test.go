package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/linkdash/internal/apiclient"
	"github.com/patric-chuzhbe/linkdash/internal/mockservice"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/notify"
	"github.com/patric-chuzhbe/linkdash/internal/urlservice"
)

type answer bool

func (a answer) Confirm(string) bool {
	return bool(a)
}

var (
	linkA = models.ShortURL{ID: "A", OriginalURL: "https://example.com/a", ShortID: "aaa"}
	linkB = models.ShortURL{ID: "B", OriginalURL: "https://example.com/b", ShortID: "bbb"}
	linkC = models.ShortURL{ID: "C", OriginalURL: "https://example.com/c", ShortID: "ccc"}
)

func mountedFlow(t *testing.T, confirm bool, links ...models.ShortURL) (*Flow, *mockservice.URLServiceMock, *notify.Recorder) {
	t.Helper()

	client := &mockservice.URLServiceMock{}
	client.On("List", mock.Anything).Return(links, nil).Once()
	recorder := &notify.Recorder{}

	flow := New(client, answer(confirm), recorder, "http://localhost:8080/")
	flow.Mount(context.Background())
	require.Empty(t, flow.Error())

	return flow, client, recorder
}

func TestMount(t *testing.T) {
	t.Run("links loaded", func(t *testing.T) {
		flow, _, recorder := mountedFlow(t, true, linkA, linkB)

		assert.Equal(t, []string{"A", "B"}, ids(flow.Links()))
		assert.False(t, flow.IsLoading())
		last, _ := recorder.Last()
		assert.Equal(t, notify.Notification{Level: notify.LevelSuccess, Message: msgLoaded}, last)
	})

	t.Run("no links yet", func(t *testing.T) {
		client := &mockservice.URLServiceMock{}
		client.On("List", mock.Anything).Return(nil, &apiclient.ResponseError{
			StatusCode: http.StatusNotFound,
			Message:    "No URLs found",
		})
		recorder := &notify.Recorder{}

		flow := New(client, answer(true), recorder, "")
		flow.Mount(context.Background())

		assert.Empty(t, flow.Links())
		assert.Empty(t, flow.Error())
		last, _ := recorder.Last()
		assert.Equal(t, msgNoURLs, last.Message)
	})

	t.Run("server failure", func(t *testing.T) {
		client := &mockservice.URLServiceMock{}
		client.On("List", mock.Anything).Return(nil, &apiclient.ResponseError{StatusCode: http.StatusInternalServerError})
		recorder := &notify.Recorder{}

		flow := New(client, answer(true), recorder, "")
		flow.Mount(context.Background())

		assert.Empty(t, flow.Links())
		assert.Equal(t, msgLoadFailed, flow.Error())
		assert.False(t, flow.IsLoading())
	})
}

func TestCreate(t *testing.T) {
	t.Run("new link is prepended", func(t *testing.T) {
		flow, client, recorder := mountedFlow(t, true, linkA, linkB)
		client.On("Create", mock.Anything, models.CreateURLRequest{OriginalURL: linkC.OriginalURL}).
			Return(&urlservice.CreateResult{StatusCode: http.StatusCreated, URL: linkC}, nil)

		created, err := flow.Create(context.Background(), linkC.OriginalURL, "")
		require.NoError(t, err)

		assert.Equal(t, linkC, *created)
		assert.Equal(t, []string{"C", "A", "B"}, ids(flow.Links()))
		assert.False(t, flow.IsCreating())
		last, _ := recorder.Last()
		assert.Equal(t, msgCreated, last.Message)
	})

	t.Run("existing link is not duplicated", func(t *testing.T) {
		flow, client, _ := mountedFlow(t, true, linkA, linkB)
		client.On("Create", mock.Anything, mock.Anything).
			Return(&urlservice.CreateResult{StatusCode: http.StatusOK, URL: linkB}, nil)

		_, err := flow.Create(context.Background(), linkB.OriginalURL, "")
		require.NoError(t, err)

		assert.Equal(t, []string{"A", "B"}, ids(flow.Links()))
	})

	t.Run("existing link missing locally is shown", func(t *testing.T) {
		flow, client, _ := mountedFlow(t, true, linkA)
		client.On("Create", mock.Anything, mock.Anything).
			Return(&urlservice.CreateResult{StatusCode: http.StatusOK, URL: linkB}, nil)

		_, err := flow.Create(context.Background(), linkB.OriginalURL, "")
		require.NoError(t, err)

		assert.Equal(t, []string{"B", "A"}, ids(flow.Links()))
	})

	t.Run("invalid input sends nothing", func(t *testing.T) {
		flow, client, _ := mountedFlow(t, true, linkA)

		_, err := flow.Create(context.Background(), "not a url", "")

		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("server message is shown", func(t *testing.T) {
		flow, client, recorder := mountedFlow(t, true, linkA)
		client.On("Create", mock.Anything, mock.Anything).
			Return(nil, &apiclient.ResponseError{StatusCode: http.StatusConflict, Message: "Custom alias already in use"})

		_, err := flow.Create(context.Background(), linkB.OriginalURL, "taken")
		require.Error(t, err)

		assert.Equal(t, "Custom alias already in use", flow.Error())
		assert.Equal(t, []string{"A"}, ids(flow.Links()))
		last, _ := recorder.Last()
		assert.Equal(t, notify.LevelError, last.Level)
	})

	t.Run("transport failure uses the generic message", func(t *testing.T) {
		flow, client, _ := mountedFlow(t, true, linkA)
		client.On("Create", mock.Anything, mock.Anything).Return(nil, apiclient.ErrTransport)

		_, err := flow.Create(context.Background(), linkB.OriginalURL, "")
		require.Error(t, err)

		assert.Equal(t, msgCreateFailed, flow.Error())
	})
}

func TestDelete(t *testing.T) {
	t.Run("confirmed delete removes the link", func(t *testing.T) {
		flow, client, _ := mountedFlow(t, true, linkA, linkB, linkC)
		client.On("Delete", mock.Anything, "B").Return(nil)

		deleted, err := flow.Delete(context.Background(), "B")
		require.NoError(t, err)

		assert.True(t, deleted)
		assert.Equal(t, []string{"A", "C"}, ids(flow.Links()))
	})

	t.Run("failed delete keeps the list", func(t *testing.T) {
		flow, client, _ := mountedFlow(t, true, linkA, linkB, linkC)
		client.On("Delete", mock.Anything, "B").Return(errors.New("boom"))

		deleted, err := flow.Delete(context.Background(), "B")
		require.Error(t, err)

		assert.False(t, deleted)
		assert.Equal(t, msgDeleteFailed, flow.Error())
		assert.Equal(t, []string{"A", "B", "C"}, ids(flow.Links()))

		flow.ClearError()
		assert.Empty(t, flow.Error())
	})

	t.Run("declined delete sends nothing", func(t *testing.T) {
		flow, client, _ := mountedFlow(t, false, linkA, linkB)

		deleted, err := flow.Delete(context.Background(), "A")
		require.NoError(t, err)

		assert.False(t, deleted)
		assert.Equal(t, []string{"A", "B"}, ids(flow.Links()))
		client.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestShortLink(t *testing.T) {
	flow := New(&mockservice.URLServiceMock{}, answer(true), &notify.Recorder{}, "http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080/aaa", flow.ShortLink(linkA))
	assert.Equal(t, "https://sho.rt/x", flow.ShortLink(models.ShortURL{ShortID: "x", ShortURL: "https://sho.rt/x"}))
}
