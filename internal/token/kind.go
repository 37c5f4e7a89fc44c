package token

// Kind is the closed set of token kinds the lexer can produce. Keeping it a
// flat enum (rather than a tagged-union type) mirrors how a typical Go
// lexer package represents TokenType: an int with named constants, cheap
// to compare and switch over.
type Kind int

const (
	// EOF is returned once, after the last real token, and never again.
	EOF Kind = iota
	Unknown

	// ---- trivia (filtered from the public stream, see lexer.Lex) ----
	Whitespace
	Newline
	LineComment
	BlockComment
	ContinueLine // line-continuation backslash followed by newline

	// ---- identifiers and keywords ----
	Identifier
	KeywordBegin
	Alignas
	Alignof
	Asm
	Auto
	Bool
	Break
	Case
	Catch
	Char
	Char8T
	Char16T
	Char32T
	Class
	Const
	Consteval
	Constexpr
	Constinit
	ConstCast
	Continue
	CoAwait
	CoReturn
	CoYield
	Decltype
	Default
	Delete
	Do
	Double
	DynamicCast
	Else
	Enum
	Explicit
	Export
	Extern
	False
	Float
	For
	Friend
	Goto
	If
	Inline
	Int
	Long
	Mutable
	Namespace
	New
	Noexcept
	Nullptr
	Operator
	Private
	Protected
	Public
	Register
	ReinterpretCast
	Requires
	Return
	Short
	Signed
	Sizeof
	Static
	StaticAssert
	StaticCast
	Struct
	Switch
	Template
	This
	ThreadLocal
	Throw
	True
	Try
	Typedef
	Typeid
	Typename
	Union
	Unsigned
	Using
	Virtual
	Void
	Volatile
	WcharT
	While
	Concept
	KeywordEnd

	// ---- literals ----
	IntegerLiteral
	FloatingLiteral
	CharLiteral
	WideCharLiteral   // L'a'
	Utf8CharLiteral   // u8'a'
	Utf16CharLiteral  // u'a'
	Utf32CharLiteral  // U'a'
	StringLiteral
	WideStringLiteral  // L"..."
	Utf8StringLiteral  // u8"..."
	Utf16StringLiteral // u"..."
	Utf32StringLiteral // U"..."
	RawStringLiteral   // R"delim(...)delim"
	UserDefinedLiteral

	// ---- operators and punctuators (multigraphs, maximal munch) ----
	OperatorBegin
	Plus
	Minus
	Star
	Slash
	Percent
	PlusPlus
	MinusMinus
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	Spaceship // <=>
	LogicalAnd
	LogicalOr
	LogicalNot
	Ampersand
	Pipe
	Caret
	Tilde
	LeftShift
	RightShift
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpersandAssign
	PipeAssign
	CaretAssign
	LeftShiftAssign
	RightShiftAssign
	Dot
	Arrow
	DotStar
	ArrowStar
	DoubleColon
	Question
	Colon
	Semicolon
	Comma
	Ellipsis
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	AttributeStart // [[
	AttributeEnd   // ]]
	OperatorEnd

	// ---- preprocessor ----
	Hash          // # anywhere, including the one that opens a directive line (stringify inside a replacement list)
	HashHash      // ## token-paste marker
	PPDirectiveBegin
	PPInclude
	PPIncludeNext
	PPDefine
	PPUndef
	PPIf
	PPIfdef
	PPIfndef
	PPElif
	PPElifdef
	PPElifndef
	PPElse
	PPEndif
	PPPragma
	PPError
	PPWarning
	PPLine
	PPDirectiveEnd

	// ---- macro-expansion internals ----
	MacroParameter
	MacroStringify // '#' inside a macro replacement list
	MacroConcat    // '##' inside a macro replacement list
)

// IsKeyword reports whether k is one of the fixed C++ keywords.
func (k Kind) IsKeyword() bool { return k > KeywordBegin && k < KeywordEnd }

// IsOperator reports whether k is an operator, punctuator or attribute bracket.
func (k Kind) IsOperator() bool { return k > OperatorBegin && k < OperatorEnd }

// IsLiteral reports whether k is any literal kind.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntegerLiteral, FloatingLiteral,
		CharLiteral, WideCharLiteral, Utf8CharLiteral, Utf16CharLiteral, Utf32CharLiteral,
		StringLiteral, WideStringLiteral, Utf8StringLiteral, Utf16StringLiteral, Utf32StringLiteral,
		RawStringLiteral, UserDefinedLiteral:
		return true
	default:
		return false
	}
}

// IsPreprocessorDirective reports whether k names a specific directive kind
// (not the generic '#' token).
func (k Kind) IsPreprocessorDirective() bool {
	return k > PPDirectiveBegin && k < PPDirectiveEnd
}

// IsTrivia reports whether k is filtered from the lexer's public token
// sequence (whitespace, comments and line continuations never reach the
// parser).
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Newline, LineComment, BlockComment, ContinueLine:
		return true
	default:
		return false
	}
}

// keywords maps the spelling of each fixed C++ keyword to its Kind. Built once;
// used by the lexer to reclassify an Identifier lexeme.
var keywords = map[string]Kind{
	"alignas": Alignas, "alignof": Alignof, "asm": Asm, "auto": Auto,
	"bool": Bool, "break": Break, "case": Case, "catch": Catch,
	"char": Char, "char8_t": Char8T, "char16_t": Char16T, "char32_t": Char32T,
	"class": Class, "const": Const, "consteval": Consteval,
	"constexpr": Constexpr, "constinit": Constinit, "const_cast": ConstCast,
	"continue": Continue, "co_await": CoAwait, "co_return": CoReturn,
	"co_yield": CoYield, "decltype": Decltype, "default": Default,
	"delete": Delete, "do": Do, "double": Double, "dynamic_cast": DynamicCast,
	"else": Else, "enum": Enum, "explicit": Explicit, "export": Export,
	"extern": Extern, "false": False, "float": Float, "for": For,
	"friend": Friend, "goto": Goto, "if": If, "inline": Inline, "int": Int,
	"long": Long, "mutable": Mutable, "namespace": Namespace, "new": New,
	"noexcept": Noexcept, "nullptr": Nullptr, "operator": Operator,
	"private": Private, "protected": Protected, "public": Public,
	"register": Register, "reinterpret_cast": ReinterpretCast,
	"requires": Requires, "return": Return, "short": Short, "signed": Signed,
	"sizeof": Sizeof, "static": Static, "static_assert": StaticAssert,
	"static_cast": StaticCast, "struct": Struct, "switch": Switch,
	"template": Template, "this": This, "thread_local": ThreadLocal,
	"throw": Throw, "true": True, "try": Try, "typedef": Typedef,
	"typeid": Typeid, "typename": Typename, "union": Union,
	"unsigned": Unsigned, "using": Using, "virtual": Virtual, "void": Void,
	"volatile": Volatile, "wchar_t": WcharT, "while": While,
	"concept": Concept,
}

// KeywordFromString returns the Kind for a keyword spelling, or (Identifier,
// false) if text is not a keyword.
func KeywordFromString(text string) (Kind, bool) {
	k, ok := keywords[text]
	if !ok {
		return Identifier, false
	}
	return k, true
}
