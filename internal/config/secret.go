package config

import "github.com/google/uuid"

func randomSecret() string {
	return uuid.NewString() + uuid.NewString()
}
