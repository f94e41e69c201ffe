package diag

// Stage names the pipeline step that reports an error.
type Stage int

const (
	StageInternal Stage = iota
	StageArgs
	StageSource
	StageSplit
	StageParse
	StageAst
	StageMacros
	StageValidation
	StageOps
	StageConstants
	StageExpressions
	StageEncode
)

var stageBanners = map[Stage]string{
	StageInternal:    "Internal error.",
	StageArgs:        "Invalid command line arguments.",
	StageSource:      "Could not read source file.",
	StageSplit:       "Could not split words from source file.",
	StageParse:       "Could not parse words.",
	StageAst:         "Could not build the token tree.",
	StageMacros:      "Could not expand macros.",
	StageValidation:  "Could not validate the token tree.",
	StageOps:         "Could not find instructions.",
	StageConstants:   "Could not collect constants.",
	StageExpressions: "Could not evaluate expressions in constants.",
	StageEncode:      "Could not encode the output.",
}

// Banner describes a failing stage.
func (s Stage) Banner() string { return stageBanners[s] }

// Kind identifies an error.
type Kind int

const (
	InternalBug Kind = iota

	// Splitter.
	InvalidWord
	MisplacedDirective
	InvalidDirective

	// Parser.
	EmptyStr
	BadIdent
	BadHex
	BadBin
	BadDec
	BadStr
	BadDirective
	BadDirectiveIdent
	BadMacroArg
	BadMacroArgIdent
	BadMacroIdent
	BadLabel
	BadLabelIdent
	BadAnonMark
	BadAnonMarkHex
	BadNamedMark
	BadNamedMarkHex
	BadNamedMarkLabel
	BadNamedMarkLabelIdent
	ReservedKeyword

	// Token tree.
	UnmatchedParen
	MarkWithoutLiteral
	UnaryWithoutRhs
	BinaryWithoutLhs
	BinaryWithoutRhs
	UnclosedMacro
	NoTokens
	IterationLimit

	// Macros.
	NoDeclIdent
	BadDecl
	NoDeclBody
	BadDeclToken
	DuplicateMacro
	NoCallIdent
	DeclNotFound
	ArgCountMismatch
	ArgNotFound
	RecursiveMacro

	// Validation.
	InvalidParent

	// Opcodes.
	NotFound

	// Constants.
	DuplicateKey
	MisplacedMarker
	IncludeNotFound
	ConstantNotFound

	// Expressions.
	CircularDependency
	StrInExpr
	NegativeResult
	EmptyExpr
	BadExprShape
	DivisionByZero
	InvalidShift

	// Encoder.
	ValueOverflow
	JumpOutOfRange
	NonASCII

	// Command line and files.
	NoSource
	NoOutput
	TooManyParams
	UnknownArg
	SourceUnreadable
	WriteFailed

	kindCount
)

type kindInfo struct {
	name  string
	stage Stage
	msg   string
}

var kindTable = [kindCount]kindInfo{
	InternalBug: {"InternalBug", StageInternal, "Internal error, this is a bug"},

	InvalidWord:        {"InvalidWord", StageSplit, "Word could not be split"},
	MisplacedDirective: {"MisplacedDirective", StageSplit, "Directive must start its line"},
	InvalidDirective:   {"InvalidDirective", StageSplit, "Invalid conditional directive"},

	EmptyStr:               {"EmptyStr", StageParse, "Empty string"},
	BadIdent:               {"BadIdent", StageParse, "Invalid as identifier"},
	BadHex:                 {"BadHex", StageParse, "Invalid as hexadecimal literal"},
	BadBin:                 {"BadBin", StageParse, "Invalid as binary literal"},
	BadDec:                 {"BadDec", StageParse, "Invalid as decimal literal"},
	BadStr:                 {"BadStr", StageParse, "Invalid as string literal"},
	BadDirective:           {"BadDirective", StageParse, "Invalid as directive"},
	BadDirectiveIdent:      {"BadDirectiveIdent", StageParse, "Invalid as directive identifier"},
	BadMacroArg:            {"BadMacroArg", StageParse, "Invalid as macro argument"},
	BadMacroArgIdent:       {"BadMacroArgIdent", StageParse, "Invalid as macro argument's identifier"},
	BadMacroIdent:          {"BadMacroIdent", StageParse, "Invalid as macro call's identifier"},
	BadLabel:               {"BadLabel", StageParse, "Invalid as label"},
	BadLabelIdent:          {"BadLabelIdent", StageParse, "Invalid as label's identifier"},
	BadAnonMark:            {"BadAnonMark", StageParse, "Invalid as anonymous marker"},
	BadAnonMarkHex:         {"BadAnonMarkHex", StageParse, "Invalid as anonymous marker's hexadecimal literal"},
	BadNamedMark:           {"BadNamedMark", StageParse, "Invalid as named marker"},
	BadNamedMarkHex:        {"BadNamedMarkHex", StageParse, "Invalid as named marker's hexadecimal literal"},
	BadNamedMarkLabel:      {"BadNamedMarkLabel", StageParse, "Invalid as named marker's label"},
	BadNamedMarkLabelIdent: {"BadNamedMarkLabelIdent", StageParse, "Invalid as named marker label's identifier"},
	ReservedKeyword:        {"ReservedKeyword", StageParse, "Identifier cannot be a reserved keyword"},

	UnmatchedParen:     {"UnmatchedParen", StageAst, "Parens must come in pair"},
	MarkWithoutLiteral: {"MarkWithoutLiteral", StageAst, "Marker expected a literal"},
	UnaryWithoutRhs:    {"UnaryWithoutRhs", StageAst, "Unary operator expected an operand on its right"},
	BinaryWithoutLhs:   {"BinaryWithoutLhs", StageAst, "Binary operator expected an operand on its left"},
	BinaryWithoutRhs:   {"BinaryWithoutRhs", StageAst, "Binary operator expected an operand on its right"},
	UnclosedMacro:      {"UnclosedMacro", StageAst, "Macro declaration is never closed"},
	NoTokens:           {"NoTokens", StageAst, "Expected a token here"},
	IterationLimit:     {"IterationLimit", StageAst, "Iteration limit reached"},

	NoDeclIdent:      {"NoDeclIdent", StageMacros, "Declaration has no identifier"},
	BadDecl:          {"BadDecl", StageMacros, "Declaration is invalid"},
	NoDeclBody:       {"NoDeclBody", StageMacros, "Declaration has no body"},
	BadDeclToken:     {"BadDeclToken", StageMacros, "Unexpected token in macro declaration"},
	DuplicateMacro:   {"DuplicateMacro", StageMacros, "Macro is declared more than once"},
	NoCallIdent:      {"NoCallIdent", StageMacros, "Macro call has no identifier"},
	DeclNotFound:     {"DeclNotFound", StageMacros, "Macro declaration not found"},
	ArgCountMismatch: {"ArgCountMismatch", StageMacros, "Wrong number of arguments in macro call"},
	ArgNotFound:      {"ArgNotFound", StageMacros, "Macro argument is not declared"},
	RecursiveMacro:   {"RecursiveMacro", StageMacros, "Macro expansion does not terminate"},

	InvalidParent: {"InvalidParent", StageValidation, "Token is not allowed here"},

	NotFound: {"NotFound", StageOps, "No opcode matches these arguments"},

	DuplicateKey:     {"DuplicateKey", StageConstants, "Identifier is already defined"},
	MisplacedMarker:  {"MisplacedMarker", StageConstants, "Marker location is behind the current offset"},
	IncludeNotFound:  {"IncludeNotFound", StageConstants, "Could not read included file"},
	ConstantNotFound: {"ConstantNotFound", StageConstants, "Constant not found"},

	CircularDependency: {"CircularDependency", StageExpressions, "Expression depends on itself"},
	StrInExpr:          {"StrInExpr", StageExpressions, "Strings are not allowed in arithmetic"},
	NegativeResult:     {"NegativeResult", StageExpressions, "Expression result is negative"},
	EmptyExpr:          {"EmptyExpr", StageExpressions, "Expression is empty"},
	BadExprShape:       {"BadExprShape", StageExpressions, "Values must be joined by operators"},
	DivisionByZero:     {"DivisionByZero", StageExpressions, "Division by zero"},
	InvalidShift:       {"InvalidShift", StageExpressions, "Shift amount is negative"},

	ValueOverflow:  {"ValueOverflow", StageEncode, "Value does not fit in its operand"},
	JumpOutOfRange: {"JumpOutOfRange", StageEncode, "Relative jump target is out of range"},
	NonASCII:       {"NonASCII", StageEncode, "String is not ASCII"},

	NoSource:         {"NoSource", StageArgs, "No source file given"},
	NoOutput:         {"NoOutput", StageArgs, "No output file given (-o)"},
	TooManyParams:    {"TooManyParams", StageArgs, "Too many parameters"},
	UnknownArg:       {"UnknownArg", StageArgs, "Unknown argument"},
	SourceUnreadable: {"SourceUnreadable", StageSource, "Could not read source file"},
	WriteFailed:      {"WriteFailed", StageEncode, "Could not write output file"},
}

func (k Kind) info() kindInfo {
	if k < 0 || k >= kindCount {
		return kindInfo{"Unknown", StageInternal, "Unknown error"}
	}
	return kindTable[k]
}

func (k Kind) String() string { return k.info().name }

// Message is the human readable description of k.
func (k Kind) Message() string { return k.info().msg }

// Stage returns the stage that reports k.
func (k Kind) Stage() Stage { return k.info().stage }
