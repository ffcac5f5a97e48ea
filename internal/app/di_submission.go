package app

import (
	"fmt"

	submissionHTTP "github.com/allisson/formseal/internal/submission/http"
	submissionUseCase "github.com/allisson/formseal/internal/submission/usecase"
)

// Gateway returns the downstream delivery gateway.
func (c *Container) Gateway() submissionUseCase.Gateway {
	c.gatewayInit.Do(func() {
		c.gateway = submissionUseCase.NewSimulatedGateway(c.config.SubmissionDelay, c.Logger())
	})
	return c.gateway
}

// SubmissionUseCase returns the application submission use case, instrumented with metrics.
func (c *Container) SubmissionUseCase() (submissionUseCase.SubmissionUseCase, error) {
	var err error
	c.submissionInit.Do(func() {
		c.submissionUseCase, err = c.initSubmissionUseCase()
		if err != nil {
			c.initErrors["submissionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["submissionUseCase"]; exists {
		return nil, storedErr
	}
	return c.submissionUseCase, nil
}

// SubmissionHandler returns the HTTP handler for the submission endpoints.
func (c *Container) SubmissionHandler() (*submissionHTTP.SubmissionHandler, error) {
	var err error
	c.handlerInit.Do(func() {
		var useCase submissionUseCase.SubmissionUseCase
		useCase, err = c.SubmissionUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get submission use case for handler: %w", err)
			c.initErrors["submissionHandler"] = err
			return
		}
		c.submissionHandler = submissionHTTP.NewSubmissionHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["submissionHandler"]; exists {
		return nil, storedErr
	}
	return c.submissionHandler, nil
}

func (c *Container) initSubmissionUseCase() (submissionUseCase.SubmissionUseCase, error) {
	session, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session for submission use case: %w", err)
	}

	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for submission use case: %w", err)
	}

	useCase := submissionUseCase.NewSubmissionUseCase(session, c.Gateway(), policy, c.Logger())
	return submissionUseCase.NewSubmissionUseCaseWithMetrics(useCase, businessMetrics), nil
}
