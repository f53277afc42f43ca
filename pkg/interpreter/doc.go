// Package interpreter executes a parsed program directly against an
// in-process tape of byte cells. Each Interpreter owns one tape and one
// cursor; Run resets both before executing a Program, while Exec continues
// from whatever state the machine is already in.
package interpreter
