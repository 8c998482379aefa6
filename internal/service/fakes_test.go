package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/generator"
)

type fakeProvider struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	updates int
}

func newFakeProvider(users ...*domain.User) *fakeProvider {
	p := &fakeProvider{users: map[string]*domain.User{}}
	for _, u := range users {
		p.users[u.ID] = u
	}
	return p
}

func (f *fakeProvider) GetUser(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	copied := *user
	copied.PrivateMetadata = map[string]any{}
	for k, v := range user.PrivateMetadata {
		copied.PrivateMetadata[k] = v
	}
	return &copied, nil
}

func (f *fakeProvider) UpdateMetadata(_ context.Context, id string, metadata map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	user := f.users[id]
	if user.PrivateMetadata == nil {
		user.PrivateMetadata = map[string]any{}
	}
	for k, v := range metadata {
		user.PrivateMetadata[k] = v
	}
	return nil
}

func (f *fakeProvider) usage(id string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].PrivateMetadata[domain.MetadataFreeUsage]
}

type fakeCreations struct {
	mu        sync.Mutex
	items     []domain.Creation
	createErr error
	listErr   error
	updateErr error
}

func (f *fakeCreations) Create(_ context.Context, creation *domain.Creation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	creation.ID = strconv.Itoa(len(f.items) + 1)
	creation.Likes = []string{}
	f.items = append(f.items, *creation)
	return nil
}

func (f *fakeCreations) GetByID(_ context.Context, id string) (*domain.Creation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCreations) ListByUser(_ context.Context, userID string) ([]domain.Creation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Creation{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeCreations) ListPublished(_ context.Context) ([]domain.Creation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Creation{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].Publish {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeCreations) UpdateLikes(_ context.Context, id string, likes []string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Likes = likes
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeText struct {
	calls     int
	prompts   []string
	maxTokens []int
	content   string
	err       error
}

func (f *fakeText) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

type fakeImages struct {
	calls int
	url   string
	err   error
}

func (f *fakeImages) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.url, f.err
}

type fakeMedia struct {
	calls   int
	objects []string
	read    []string
	err     error
}

func (f *fakeMedia) UploadFromURL(_ context.Context, sourceURL string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://media.example/hosted?src=" + sourceURL, nil
}

func (f *fakeMedia) RemoveBackground(_ context.Context, file generator.File) (string, error) {
	f.calls++
	data, _ := io.ReadAll(file.Reader)
	f.read = append(f.read, string(data))
	if f.err != nil {
		return "", f.err
	}
	return "https://media.example/nobg/" + file.Name, nil
}

func (f *fakeMedia) RemoveObject(_ context.Context, file generator.File, object string) (string, error) {
	f.calls++
	f.objects = append(f.objects, object)
	if f.err != nil {
		return "", f.err
	}
	return "https://media.example/" + generator.GenRemoveTransformation(object) + "/" + file.Name, nil
}

type fakeResumes struct {
	calls int
	text  string
}

func (f *fakeResumes) ExtractText(_ context.Context, _ []byte) (string, error) {
	f.calls++
	return f.text, nil
}

func stringUpload(name, body string) *Upload {
	return &Upload{
		Name: name,
		Size: int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}
