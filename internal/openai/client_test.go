package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	embeddings  [][]float32
	embedErr    error
	embedCalls  [][]string
	answer      string
	answerErr   error
	promptsSeen []string
}

func (f *fakeAPI) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	f.embedCalls = append(f.embedCalls, texts)
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embeddings, nil
}

func (f *fakeAPI) CreateChatCompletion(ctx context.Context, prompt string) (string, error) {
	f.promptsSeen = append(f.promptsSeen, prompt)
	if f.answerErr != nil {
		return "", f.answerErr
	}
	return f.answer, nil
}

func makeEmbedding(dim int) []float32 {
	e := make([]float32, dim)
	for i := range e {
		e[i] = float32(i) * 0.001
	}
	return e
}

func TestGenerateEmbedding_Success(t *testing.T) {
	api := &fakeAPI{embeddings: [][]float32{makeEmbedding(1536)}}
	client := &Client{api: api, dimensions: 1536}

	embedding, err := client.GenerateEmbedding(context.Background(), "some text")
	require.NoError(t, err)
	assert.Len(t, embedding, 1536)
	require.Len(t, api.embedCalls, 1)
	assert.Equal(t, []string{"some text"}, api.embedCalls[0])
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	client := &Client{api: &fakeAPI{}, dimensions: 1536}

	_, err := client.GenerateEmbedding(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestGenerateEmbeddings_Batch(t *testing.T) {
	api := &fakeAPI{embeddings: [][]float32{makeEmbedding(1536), makeEmbedding(1536)}}
	client := &Client{api: api, dimensions: 1536}

	embeddings, err := client.GenerateEmbeddings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, embeddings, 2)
	require.Len(t, api.embedCalls, 1)
	assert.Equal(t, []string{"a", "b"}, api.embedCalls[0])
}

func TestGenerateEmbeddings_WrongDimensions(t *testing.T) {
	api := &fakeAPI{embeddings: [][]float32{makeEmbedding(8)}}
	client := &Client{api: api, dimensions: 1536}

	_, err := client.GenerateEmbeddings(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestGenerateEmbeddings_APIError(t *testing.T) {
	api := &fakeAPI{embedErr: errors.New("rate limited")}
	client := &Client{api: api, dimensions: 1536}

	_, err := client.GenerateEmbeddings(context.Background(), []string{"a"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create embeddings")
}

func TestGenerateAnswer_Success(t *testing.T) {
	api := &fakeAPI{answer: "the answer"}
	client := &Client{api: api, dimensions: 1536}

	answer, err := client.GenerateAnswer(context.Background(), "a prompt")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	assert.Equal(t, []string{"a prompt"}, api.promptsSeen)
}

func TestGenerateAnswer_Error(t *testing.T) {
	api := &fakeAPI{answerErr: errors.New("boom")}
	client := &Client{api: api, dimensions: 1536}

	_, err := client.GenerateAnswer(context.Background(), "a prompt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create chat completion")
}
