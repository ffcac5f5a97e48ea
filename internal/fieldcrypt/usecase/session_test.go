package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/usecase"
	usecaseMocks "github.com/allisson/formseal/internal/fieldcrypt/usecase/mocks"
)

func TestSessionUseCase_EncryptDecrypt(t *testing.T) {
	ctx := context.Background()
	policy := domain.DefaultPolicy()
	svc, _ := newCipher(t, policy)
	forms := usecase.NewFormCryptoUseCase(svc, policy, discardLogger())
	session := usecase.NewSessionUseCase(svc, forms, discardLogger())

	tree := mustParse(t, `{"personalInfo": {"name": "John Doe", "dob": "1990-01-01"}}`)

	encrypted, ok := session.EncryptData(ctx, tree)
	require.True(t, ok)
	assert.Equal(t, 1, domain.CountEnvelopes(encrypted))

	decrypted := session.DecryptData(ctx, encrypted)
	assert.Equal(t, tree, decrypted)

	status := session.Status(ctx)
	assert.True(t, status.Supported)
	assert.True(t, status.HasKey)
	assert.NotEmpty(t, status.KeyID)
	assert.Equal(t, domain.AESGCM, status.Algorithm)

	// the key is created once per session
	assert.Equal(t, status.KeyID, session.Status(ctx).KeyID)
}

func TestSessionUseCase_Unsupported(t *testing.T) {
	ctx := context.Background()
	keys := &usecaseMocks.MockKeyProvider{}
	forms := &usecaseMocks.MockFormCryptoUseCase{}
	session := usecase.NewSessionUseCase(keys, forms, discardLogger())

	keys.On("IsSupported").Return(false).Once()

	tree := mustParse(t, `{"name": "John"}`)
	out, ok := session.EncryptData(ctx, tree)
	assert.False(t, ok)
	assert.Equal(t, tree, out)

	assert.Equal(t, tree, session.DecryptData(ctx, tree))
	assert.Equal(t, usecase.SessionStatus{}, session.Status(ctx))

	keys.AssertExpectations(t)
	keys.AssertNotCalled(t, "GenerateKey")
	forms.AssertNotCalled(t, "EncryptFormData", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionUseCase_KeyGenerationFailure(t *testing.T) {
	ctx := context.Background()
	keys := &usecaseMocks.MockKeyProvider{}
	forms := &usecaseMocks.MockFormCryptoUseCase{}
	session := usecase.NewSessionUseCase(keys, forms, discardLogger())

	keys.On("IsSupported").Return(true).Once()
	keys.On("GenerateKey").Return(nil, domain.ErrKeyGenerationFailed).Once()

	tree := mustParse(t, `{"name": "John"}`)
	out, ok := session.EncryptData(ctx, tree)
	assert.False(t, ok)
	assert.Equal(t, tree, out)

	status := session.Status(ctx)
	assert.True(t, status.Supported)
	assert.False(t, status.HasKey)

	keys.AssertExpectations(t)
}

func TestSessionUseCase_WalkErrorFallsBack(t *testing.T) {
	ctx := context.Background()
	policy := domain.DefaultPolicy()
	_, key := newCipher(t, policy)

	keys := &usecaseMocks.MockKeyProvider{}
	forms := &usecaseMocks.MockFormCryptoUseCase{}
	session := usecase.NewSessionUseCase(keys, forms, discardLogger())

	tree := mustParse(t, `{"name": "John"}`)

	keys.On("IsSupported").Return(true).Once()
	keys.On("GenerateKey").Return(key, nil).Once()
	forms.On("EncryptFormData", ctx, tree, key).Return(nil, errors.New("walk failed")).Once()
	forms.On("DecryptFormData", ctx, tree, key).Return(nil, errors.New("walk failed")).Once()

	out, ok := session.EncryptData(ctx, tree)
	assert.False(t, ok)
	assert.Equal(t, tree, out)
	assert.Equal(t, tree, session.DecryptData(ctx, tree))

	keys.AssertExpectations(t)
	forms.AssertExpectations(t)
}
