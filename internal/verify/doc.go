// Package verify performs black-box verification of a built greeting
// binary: it asserts the binary is executable, then checks the exact
// output of the no-argument and one-argument invocations.
package verify
