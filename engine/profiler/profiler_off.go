//go:build !profile

package profiler

const Enabled = false

func Init(capacity int) {}

func Scope(name string) func() { return func() {} }

func Save(path string) error { return nil }
