package model

import internalmodel "github.com/goliatone/go-settingsgen/internal/model"

// Decorator enriches resolved descriptors after defaulting (localisation,
// host-specific hints).
type Decorator = internalmodel.Decorator

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc = internalmodel.DecoratorFunc
