package application

import (
	"context"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Orchestrator posts one text to every enabled account and reports one
// result per account, in declared order.
type Orchestrator struct {
	credentials *CredentialStore
	posters     map[domain.Platform]ports.Poster
	service     string
	concurrency int
	logger      logrus.FieldLogger
}

type OrchestratorOption func(*Orchestrator)

// WithKeychainService overrides the secret-store service for this run.
func WithKeychainService(service string) OrchestratorOption {
	return func(o *Orchestrator) {
		if service != "" {
			o.service = service
		}
	}
}

// WithConcurrency posts up to n accounts at a time. n <= 1 is sequential.
func WithConcurrency(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

func WithLogger(logger logrus.FieldLogger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewOrchestrator(credentials *CredentialStore, posters []ports.Poster, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		credentials: credentials,
		posters:     make(map[domain.Platform]ports.Poster, len(posters)),
		service:     domain.DefaultKeychainService,
		concurrency: 1,
		logger:      discardLogger(),
	}
	for _, poster := range posters {
		o.posters[poster.Platform()] = poster
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Prepare resolves the credential of every enabled account without posting.
// Outcomes are cached, so a following Run never prompts.
func (o *Orchestrator) Prepare(ctx context.Context, configs []domain.PlatformConfig) {
	for _, account := range domain.EnabledAccounts(configs) {
		if ctx.Err() != nil {
			return
		}
		if _, ok := o.posters[account.Platform]; !ok {
			continue
		}
		_, _ = o.credentials.Resolve(ctx, o.credentialRequest(account))
	}
}

func (o *Orchestrator) Run(ctx context.Context, configs []domain.PlatformConfig, text string) []domain.PostResult {
	return o.RunWithProgress(ctx, configs, text, nil)
}

// RunWithProgress is Run, calling progress with each result as soon as its
// account is done. With concurrency above one, progress is called from
// several goroutines and in completion order.
func (o *Orchestrator) RunWithProgress(ctx context.Context, configs []domain.PlatformConfig, text string, progress func(domain.PostResult)) []domain.PostResult {
	accounts := domain.EnabledAccounts(configs)
	results := make([]domain.PostResult, len(accounts))
	logger := o.logger.WithField("run_id", uuid.NewString())
	logger.WithField("accounts", len(accounts)).Debug("run started")

	postOne := func(i int, account domain.Account) {
		results[i] = o.post(ctx, logger, account, text)
		if progress != nil {
			progress(results[i])
		}
	}

	if o.concurrency <= 1 {
		for i, account := range accounts {
			postOne(i, account)
		}
		return results
	}

	// Workers never return errors: a failed account must not stop its siblings.
	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			postOne(i, account)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (o *Orchestrator) post(ctx context.Context, logger logrus.FieldLogger, account domain.Account, text string) domain.PostResult {
	logger = logger.WithFields(logrus.Fields{
		"platform": account.Platform,
		"account":  account.Name,
	})

	if err := ctx.Err(); err != nil {
		return domain.FailureResult(account, domain.NewPostError(domain.FailureCancelled, "", err))
	}

	poster, ok := o.posters[account.Platform]
	if !ok {
		logger.Warn("no adapter for platform")
		return domain.FailureResult(account, domain.NewPostError(domain.FailureUnsupported, "no adapter for platform "+string(account.Platform), nil))
	}

	credential, err := o.credentials.Resolve(ctx, o.credentialRequest(account))
	if err != nil {
		logger.WithError(err).Warn("credential not resolved")
		return domain.FailureResult(account, err)
	}

	receipt, err := poster.Post(ctx, ports.PostRequest{Text: text, Account: account, Credential: credential})
	if err != nil {
		logger.WithError(err).Warn("post failed")
		return domain.FailureResult(account, err)
	}

	logger.WithField("url", receipt.URL).Info("posted")
	return domain.SuccessResult(account, receipt)
}

func (o *Orchestrator) credentialRequest(account domain.Account) CredentialRequest {
	return CredentialRequest{
		Ref:   account.CredentialRef(o.service),
		Shape: domain.ShapeFor(account.Platform),
		Label: account.Label(),
	}
}

// Failed reports whether any account in the run did not get its post.
func Failed(results []domain.PostResult) bool {
	return domain.AnyFailed(results)
}
