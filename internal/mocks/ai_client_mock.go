package mocks

import (
	"context"

	"pentacore/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockTextGenerator is a mock type for the TextGenerator type
type MockTextGenerator struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, model, prompt
func (_m *MockTextGenerator) GenerateText(ctx context.Context, model string, prompt string) (string, error) {
	ret := _m.Called(ctx, model, prompt)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, string) string); ok {
		r0 = rf(ctx, model, prompt)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, model, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockTextGenerator creates a new instance of MockTextGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTextGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextGenerator {
	m := &MockTextGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockImageGenerator is a mock type for the ImageGenerator type
type MockImageGenerator struct {
	mock.Mock
}

// GenerateImage provides a mock function with given fields: ctx, model, prompt
func (_m *MockImageGenerator) GenerateImage(ctx context.Context, model string, prompt string) (*service.ImageResponse, error) {
	ret := _m.Called(ctx, model, prompt)

	var r0 *service.ImageResponse
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *service.ImageResponse); ok {
		r0 = rf(ctx, model, prompt)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*service.ImageResponse)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, model, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockImageGenerator creates a new instance of MockImageGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockImageGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockImageGenerator {
	m := &MockImageGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ service.TextGenerator  = (*MockTextGenerator)(nil)
	_ service.ImageGenerator = (*MockImageGenerator)(nil)
)
