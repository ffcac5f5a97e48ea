package app

import (
	"fmt"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	fieldcryptService "github.com/allisson/formseal/internal/fieldcrypt/service"
	fieldcryptUseCase "github.com/allisson/formseal/internal/fieldcrypt/usecase"
)

// Policy returns the encryption policy built from configuration.
func (c *Container) Policy() (fieldcryptDomain.Policy, error) {
	c.policyInit.Do(func() {
		policy, err := c.config.Policy()
		if err != nil {
			c.initErrors["policy"] = fmt.Errorf("failed to build encryption policy: %w", err)
			return
		}
		c.policy = &policy
	})
	if storedErr, exists := c.initErrors["policy"]; exists {
		return fieldcryptDomain.Policy{}, storedErr
	}
	return *c.policy, nil
}

// CipherService returns the primitive cipher service for the configured algorithm.
func (c *Container) CipherService() (*fieldcryptService.CipherService, error) {
	var err error
	c.cipherServiceInit.Do(func() {
		c.cipherService, err = c.initCipherService()
		if err != nil {
			c.initErrors["cipherService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipherService"]; exists {
		return nil, storedErr
	}
	return c.cipherService, nil
}

// HashService returns the SHA-256 hash service.
func (c *Container) HashService() fieldcryptService.HashService {
	c.hashServiceInit.Do(func() {
		c.hashService = fieldcryptService.NewSHA256HashService()
	})
	return c.hashService
}

// KMSService returns the KMS service used to wrap exported keys.
func (c *Container) KMSService() fieldcryptService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = fieldcryptService.NewKMSService()
	})
	return c.kmsService
}

// FormCryptoUseCase returns the structural form encryption use case, instrumented with metrics.
func (c *Container) FormCryptoUseCase() (fieldcryptUseCase.FormCryptoUseCase, error) {
	var err error
	c.formCryptoInit.Do(func() {
		c.formCryptoUseCase, err = c.initFormCryptoUseCase()
		if err != nil {
			c.initErrors["formCryptoUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["formCryptoUseCase"]; exists {
		return nil, storedErr
	}
	return c.formCryptoUseCase, nil
}

// SessionUseCase returns the process-wide encryption session.
func (c *Container) SessionUseCase() (fieldcryptUseCase.SessionUseCase, error) {
	var err error
	c.sessionInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

func (c *Container) initCipherService() (*fieldcryptService.CipherService, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	return fieldcryptService.NewCipherService(fieldcryptService.NewAEADManager(), policy), nil
}

func (c *Container) initFormCryptoUseCase() (fieldcryptUseCase.FormCryptoUseCase, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}

	cipherService, err := c.CipherService()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher service for form crypto use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for form crypto use case: %w", err)
	}

	useCase := fieldcryptUseCase.NewFormCryptoUseCase(cipherService, policy, c.Logger())
	return fieldcryptUseCase.NewFormCryptoUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initSessionUseCase() (fieldcryptUseCase.SessionUseCase, error) {
	cipherService, err := c.CipherService()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher service for session: %w", err)
	}

	formCryptoUseCase, err := c.FormCryptoUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get form crypto use case for session: %w", err)
	}

	return fieldcryptUseCase.NewSessionUseCase(cipherService, formCryptoUseCase, c.Logger()), nil
}
