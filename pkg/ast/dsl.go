package ast

// Command helpers.

func Cmd(command Command, count int) *CommandNode {
	return NewCommandNode(command, count)
}

func Inc(count int) *CommandNode   { return Cmd(Increment, count) }
func Dec(count int) *CommandNode   { return Cmd(Decrement, count) }
func Left(count int) *CommandNode  { return Cmd(ShiftLeft, count) }
func Right(count int) *CommandNode { return Cmd(ShiftRight, count) }
func In(count int) *CommandNode    { return Cmd(Input, count) }
func Out(count int) *CommandNode   { return Cmd(Output, count) }

func Clear() *CommandNode {
	return NewCommandNode(Zero, 1)
}

// Container helpers.

func Lp(children ...Node) *Loop {
	return NewLoop(children...)
}

func Prog(children ...Node) *Program {
	return NewProgram(children...)
}
