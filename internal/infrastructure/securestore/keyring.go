package securestore

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringPrimitive stores items in the OS keychain under one service name.
// Platform keychains cap item size, which is why the native adapter chunks.
type KeyringPrimitive struct {
	service string
}

var _ Primitive = (*KeyringPrimitive)(nil)

// NewKeyringPrimitive builds the OS keychain primitive.
func NewKeyringPrimitive(service string) *KeyringPrimitive {
	return &KeyringPrimitive{service: service}
}

func (k *KeyringPrimitive) Get(key string) (string, error) {
	v, err := keyring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrItemNotFound
	}
	return v, err
}

func (k *KeyringPrimitive) Set(key, value string) error {
	return keyring.Set(k.service, key, value)
}

func (k *KeyringPrimitive) Delete(key string) error {
	err := keyring.Delete(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
