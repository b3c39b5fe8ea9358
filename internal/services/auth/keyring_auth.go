package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetPassword(username string, password string) error {
	return keyring.Set(k.serviceName, NormalizeUsername(username), password)
}

func (k *KeyringStore) GetPassword(username string) (string, error) {
	pw, err := keyring.Get(k.serviceName, NormalizeUsername(username))
	if err == nil {
		return pw, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrPasswordNotFound
	}
	return "", err
}

func (k *KeyringStore) DeletePassword(username string) error {
	err := keyring.Delete(k.serviceName, NormalizeUsername(username))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrPasswordNotFound
	}
	return err
}
