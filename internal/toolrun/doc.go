// Package toolrun invokes the external Node.js tooling used after a project
// is generated: the package manager, the ESLint fix script and the Prettier
// precommit hook tools. Command execution sits behind the CommandRunner
// interface so the pipeline can be exercised without real binaries.
package toolrun
