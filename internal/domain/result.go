package domain

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Receipt identifies a post created by an adapter.
type Receipt struct {
	ID  string
	URL string
}

type PostResult struct {
	Platform    Platform    `json:"platform"`
	AccountName string      `json:"account"`
	Status      Status      `json:"status"`
	Kind        FailureKind `json:"kind,omitempty"`
	Detail      string      `json:"detail,omitempty"`
	URL         string      `json:"url,omitempty"`
}

func (r PostResult) Succeeded() bool { return r.Status == StatusSuccess }

func SuccessResult(account Account, receipt Receipt) PostResult {
	return PostResult{
		Platform:    account.Platform,
		AccountName: account.Name,
		Status:      StatusSuccess,
		URL:         receipt.URL,
	}
}

func FailureResult(account Account, err error) PostResult {
	kind := ClassifyError(err)
	detail := err.Error()
	if errors.Is(err, ErrUserCancelled) {
		detail = ErrUserCancelled.Error()
	}

	return PostResult{
		Platform:    account.Platform,
		AccountName: account.Name,
		Status:      StatusFailure,
		Kind:        kind,
		Detail:      detail,
	}
}

// AnyFailed reports whether at least one result is a failure.
func AnyFailed(results []PostResult) bool {
	for _, result := range results {
		if !result.Succeeded() {
			return true
		}
	}

	return false
}

func (r PostResult) String() string {
	if r.Succeeded() {
		return fmt.Sprintf("%s/%s: %s", r.Platform.DisplayName(), r.AccountName, r.Status)
	}

	return fmt.Sprintf("%s/%s: %s (%s)", r.Platform.DisplayName(), r.AccountName, r.Status, r.Detail)
}
