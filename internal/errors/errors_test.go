package errors

import (
	"fmt"
	"testing"
)

func TestPublishError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *PublishError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestPublishError_WithContext(t *testing.T) {
	err := New(CategoryGit, SeverityWarning, "clone failed").
		WithContext("remote", "origin").
		WithContext("branch", "gh-pages")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["remote"] != "origin" {
		t.Errorf("Context[remote] = %v, want origin", err.Context["remote"])
	}

	if err.Context["branch"] != "gh-pages" {
		t.Errorf("Context[branch] = %v, want gh-pages", err.Context["branch"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	gitErr := New(CategoryGit, SeverityWarning, "git error")
	standardErr := fmt.Errorf("standard error")

	if !IsCategory(configErr, CategoryConfig) {
		t.Error("expected config category match")
	}
	if IsCategory(gitErr, CategoryConfig) {
		t.Error("unexpected category match for git error")
	}
	if IsCategory(standardErr, CategoryConfig) {
		t.Error("standard errors have no category")
	}
}

func TestExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, 0},
		{"remote ambiguity", New(CategoryRemote, SeverityFatal, "confused by remotes"), 3},
		{"config", New(CategoryConfig, SeverityFatal, "bad config"), 7},
		{"git", New(CategoryGit, SeverityError, "push failed"), 8},
		{"build", New(CategoryBuild, SeverityFatal, "build failed"), 11},
		{"plain error", fmt.Errorf("boom"), 1},
		{"external command status wins", &ExitError{Code: 42, Err: fmt.Errorf("doc build")}, 42},
		{
			"wrapped external command status",
			Wrap(&ExitError{Code: 5, Err: fmt.Errorf("doc build")}, CategoryBuild, SeverityFatal, "doc build failed"),
			5,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(test.err); got != test.code {
				t.Errorf("ExitCodeFor() = %d, want %d", got, test.code)
			}
		})
	}
}
