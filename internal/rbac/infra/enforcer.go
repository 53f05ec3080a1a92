package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer builds a casbin enforcer from the RBAC-with-domains
// model file. Policies are not loaded here; the rbac service loads one
// company's policy into the enforcer before each check.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
