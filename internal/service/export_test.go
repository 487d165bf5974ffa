package service

import "time"

// SetClock подменяет часы сервиса в тестах.
func (s *GenerationService) SetClock(now func() time.Time) { s.now = now }

// SetIDGenerator подменяет генератор идентификаторов в тестах.
func (s *GenerationService) SetIDGenerator(f func() string) { s.newID = f }
