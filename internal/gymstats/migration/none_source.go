package migration

import "context"

// NoSource is used when no legacy storage is configured.
type NoSource struct{}

func (NoSource) Name() string { return "none" }

func (NoSource) Load(context.Context) ([]byte, bool, error) { return nil, false, nil }

func (NoSource) Remove(context.Context) error { return nil }
