package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a Client pointed at the given test server.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(WithAPIURL(server.URL), WithBaseURL(server.URL))
	return client, server
}

func TestCommitForTag(t *testing.T) {
	tests := map[string]struct {
		responses  []string
		statuses   []int
		want       string
		wantErr    bool
		wantErrMsg string
	}{
		"lightweight tag resolves directly": {
			responses: []string{`{"object": {"type": "commit", "sha": "0123456789abcdef"}}`},
			statuses:  []int{http.StatusOK},
			want:      "0123456789abcdef",
		},
		"tag not found": {
			responses:  []string{`{"message": "Not Found"}`},
			statuses:   []int{http.StatusNotFound},
			wantErr:    true,
			wantErrMsg: "Not Found",
		},
		"unexpected object type": {
			responses:  []string{`{"object": {"type": "blob", "sha": "abc"}}`},
			statuses:   []int{http.StatusOK},
			wantErr:    true,
			wantErrMsg: "unexpected object type",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			call := 0
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statuses[call])
				_, _ = w.Write([]byte(tt.responses[call]))
				call++
			}))

			sha, err := client.CommitForTag(context.Background(), "someone", "one-repo", "mytag")

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, sha)
		})
	}
}

func TestCommitForTag_AnnotatedTag(t *testing.T) {
	// Annotated tags point at a tag object whose URL must be followed
	// to reach the underlying commit.
	var server *httptest.Server
	call := 0
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		defer func() { call++ }()
		if call == 0 {
			_, _ = w.Write([]byte(`{"object": {"type": "tag", "sha": "tagobj", "url": "` + server.URL + `/tagobj"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"object": {"type": "commit", "sha": "0123456789abcdef"}}`))
	}))
	defer server.Close()

	client := NewClient(WithAPIURL(server.URL))
	sha, err := client.CommitForTag(context.Background(), "someone", "one-repo", "mytag")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", sha)
	assert.Equal(t, 2, call)
}

func TestLastCommit(t *testing.T) {
	tests := map[string]struct {
		branch    string
		status    int
		response  string
		wantSHA   string
		wantQuery string
		wantErr   bool
	}{
		"default branch": {
			branch:    "",
			status:    http.StatusOK,
			response:  `[{"sha": "0123456789abcdef"}]`,
			wantSHA:   "0123456789abcdef",
			wantQuery: "",
		},
		"custom branch": {
			branch:    "not-default-branch",
			status:    http.StatusOK,
			response:  `[{"sha": "0123456789abcdef"}]`,
			wantSHA:   "0123456789abcdef",
			wantQuery: "sha=not-default-branch",
		},
		"not found": {
			branch:   "main",
			status:   http.StatusNotFound,
			response: `{"message": "nope"}`,
			wantErr:  true,
		},
		"empty commit list": {
			branch:   "main",
			status:   http.StatusOK,
			response: `[]`,
			wantErr:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var gotQuery string
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))

			sha, err := client.LastCommit(context.Background(), "someone", "one-repo", tt.branch)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSHA, sha)
			assert.Equal(t, tt.wantQuery, gotQuery)
		})
	}
}

func TestLastTag(t *testing.T) {
	tests := map[string]struct {
		status   int
		response string
		want     string
		wantErr  bool
	}{
		"returns newest tag": {
			status:   http.StatusOK,
			response: `[{"name": "0.1.0"}, {"name": "0.0.1"}]`,
			want:     "0.1.0",
		},
		"no tags": {
			status:   http.StatusOK,
			response: `[]`,
			wantErr:  true,
		},
		"api error": {
			status:   http.StatusForbidden,
			response: `{"message": "rate limited"}`,
			wantErr:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))

			tag, err := client.LastTag(context.Background(), "someone", "one-repo")

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, tag)
		})
	}
}

func TestCompareCommits(t *testing.T) {
	tests := map[string]struct {
		status   int
		response string
		want     []Commit
		wantErr  bool
	}{
		"commits in api order": {
			status: http.StatusOK,
			response: `{"commits": [
				{"sha": "0123456789abcdef", "commit": {"message": "Foo"}},
				{"sha": "123456789abcdef0", "commit": {"message": "Bar"}}
			]}`,
			want: []Commit{
				{SHA: "0123456789abcdef", Message: "Foo"},
				{SHA: "123456789abcdef0", Message: "Bar"},
			},
		},
		"missing commits key": {
			status:   http.StatusOK,
			response: `{}`,
			wantErr:  true,
		},
		"commit not found": {
			status:   http.StatusNotFound,
			response: `{"message": "nope"}`,
			wantErr:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))

			commits, err := client.CompareCommits(context.Background(), "someone", "one-repo", "one", "two")

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, commits)
		})
	}
}

func TestPullRequestDetails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"body": "Here comes the details of the PR",
			"labels": [{"name": "test"}, {"name": "BREAKING"}]
		}`))
	}))

	details, err := client.PullRequestDetails(context.Background(), "someone", "one-repo", "1")
	require.NoError(t, err)
	assert.Equal(t, "Here comes the details of the PR", details.Body)
	assert.Equal(t, []string{"test", "BREAKING"}, details.Labels)
}

func TestPullRequestDetails_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))

	_, err := client.PullRequestDetails(context.Background(), "someone", "one-repo", "1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestPullRequestForCommit(t *testing.T) {
	tests := map[string]struct {
		status   int
		response string
		want     *PullRequest
	}{
		"pr found": {
			status:   http.StatusOK,
			response: `[{"number": 123, "title": "Add new feature"}]`,
			want:     &PullRequest{Number: "123", Title: "Add new feature"},
		},
		"no associated pr": {
			status:   http.StatusOK,
			response: `[]`,
			want:     nil,
		},
		"api error swallowed": {
			status:   http.StatusNotFound,
			response: `{"message": "nope"}`,
			want:     nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var gotPath string
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))

			pr := client.PullRequestForCommit(context.Background(), "owner", "repo", "abc123")
			assert.Equal(t, tt.want, pr)
			assert.Equal(t, "/repos/owner/repo/commits/abc123/pulls", gotPath)
		})
	}
}

func TestClientAuthorizationHeader(t *testing.T) {
	tests := map[string]struct {
		opts     []Option
		wantAuth string
	}{
		"no token leaves request unauthenticated": {
			opts:     nil,
			wantAuth: "",
		},
		"token is sent as token scheme": {
			opts:     []Option{WithToken("secret-value")},
			wantAuth: "token secret-value",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "v1.0.0"}})
			}))
			defer server.Close()

			opts := append([]Option{WithAPIURL(server.URL)}, tt.opts...)
			client := NewClient(opts...)

			_, err := client.LastTag(context.Background(), "someone", "one-repo")
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, gotAuth)
		})
	}
}

func TestClientContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.LastTag(ctx, "someone", "one-repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}
