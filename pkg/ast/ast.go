package ast

import "fmt"

type NodeType string

const (
	NodeCommand NodeType = "CommandNode"
	NodeLoop    NodeType = "Loop"
	NodeProgram NodeType = "Program"
)

// Node is implemented by *CommandNode, *Loop and *Program only. Backends
// match on the concrete type; the set is closed by the unexported marker.
type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Loc  Span     `json:"span,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Loc }
func (*nodeImpl) isNode()             {}

func (n *nodeImpl) setSpan(span Span) { n.Loc = span }

// Command is one primitive tape operation.
type Command int

const (
	Increment Command = iota
	Decrement
	ShiftLeft
	ShiftRight
	Input
	Output
	// Zero has no source character. The parser produces it when a loop
	// only clears the current cell.
	Zero
)

var commandNames = [...]string{
	Increment:  "Increment",
	Decrement:  "Decrement",
	ShiftLeft:  "ShiftLeft",
	ShiftRight: "ShiftRight",
	Input:      "Input",
	Output:     "Output",
	Zero:       "Zero",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// Symbol returns the source character for c. Zero reports false.
func (c Command) Symbol() (byte, bool) {
	switch c {
	case Increment:
		return '+', true
	case Decrement:
		return '-', true
	case ShiftLeft:
		return '<', true
	case ShiftRight:
		return '>', true
	case Input:
		return ',', true
	case Output:
		return '.', true
	default:
		return 0, false
	}
}

// CommandForSymbol maps an operation character to its command.
func CommandForSymbol(ch byte) (Command, bool) {
	switch ch {
	case '+':
		return Increment, true
	case '-':
		return Decrement, true
	case '<':
		return ShiftLeft, true
	case '>':
		return ShiftRight, true
	case ',':
		return Input, true
	case '.':
		return Output, true
	default:
		return 0, false
	}
}

// CommandNode is a run of Count identical operations.
type CommandNode struct {
	nodeImpl

	Command Command `json:"command"`
	Count   int     `json:"count"`
}

func NewCommandNode(command Command, count int) *CommandNode {
	if command == Zero || count < 1 {
		count = 1
	}
	return &CommandNode{nodeImpl: newNodeImpl(NodeCommand), Command: command, Count: count}
}

// Block is the ordered child list shared by Loop and Program.
type Block struct {
	Children []Node `json:"children"`
}

func (b *Block) Append(node Node) {
	b.Children = append(b.Children, node)
}

func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Children)
}

// Container is satisfied by *Loop and *Program.
type Container interface {
	Node
	Append(Node)
	Len() int
}

type Loop struct {
	nodeImpl
	Block
}

func NewLoop(children ...Node) *Loop {
	loop := &Loop{nodeImpl: newNodeImpl(NodeLoop)}
	loop.Children = append(loop.Children, children...)
	return loop
}

// Program is the root of one parsed source file.
type Program struct {
	nodeImpl
	Block

	Path string `json:"path,omitempty"`
}

func NewProgram(children ...Node) *Program {
	program := &Program{nodeImpl: newNodeImpl(NodeProgram)}
	program.Children = append(program.Children, children...)
	return program
}
