package scheme

import (
	"github.com/zaoqi-unsafe/aydede/parser"
)

// Entry-point rules.
const (
	RuleProgram = parser.Rule("program")
	RuleDatum   = parser.Rule("datum")
)

const (
	ruleForm       = parser.Rule("form")
	ruleDefinition = parser.Rule("definition")
	ruleSyntaxDef  = parser.Rule("syntaxdef")
	ruleSynRules   = parser.Rule("synrules")
	ruleSynRule    = parser.Rule("synrule")
	rulePatLit     = parser.Rule("patlit")
	ruleFnDef      = parser.Rule("fndef")
	ruleVarDef     = parser.Rule("vardef")
	ruleExpr       = parser.Rule("expr")
	ruleLambda     = parser.Rule("lambda")
	ruleFormals    = parser.Rule("formals")
	ruleFormalList = parser.Rule("flist")
	ruleCall       = parser.Rule("call")
	ruleLiteral    = parser.Rule("literal")
	ruleIdentifier = parser.Rule("identifier")

	ruleLabelDef   = parser.Rule("labeldef")
	ruleLabelRef   = parser.Rule("labelref")
	ruleSimple     = parser.Rule("simple")
	ruleCompound   = parser.Rule("compound")
	ruleList       = parser.Rule("list")
	ruleVector     = parser.Rule("vector")
	ruleBytevector = parser.Rule("bytevector")
	ruleByte       = parser.Rule("byte")
	ruleAbbrev     = parser.Rule("abbrev")

	ruleBoolean   = parser.Rule("boolean")
	ruleNumber    = parser.Rule("number")
	ruleNum2      = parser.Rule("num2")
	ruleNum8      = parser.Rule("num8")
	ruleNum16     = parser.Rule("num16")
	ruleNum10     = parser.Rule("num10")
	ruleCharacter = parser.Rule("character")
	ruleString    = parser.Rule("string")
	ruleSymbol    = parser.Rule("symbol")
)

// Alternative order at every choice point. Ordered choice takes the first
// alternative that matches, so fixed-keyword forms precede the generic call,
// dotted lists precede proper lists, and numbers precede symbols (so that +
// starts a number when digits follow and is a symbol otherwise).
const (
	formChoiceDefinition = iota
	formChoiceExpression
)

const (
	defChoiceSyntax = iota
	defChoiceFunction
	defChoiceVariable
)

const (
	exprChoiceLambda = iota
	exprChoiceCall
	exprChoiceLiteral
	exprChoiceIdentifier
)

const (
	formalsChoiceList = iota
	formalsChoiceSingle
)

const (
	literalChoiceAbbrev = iota
	literalChoiceBoolean
	literalChoiceNumber
	literalChoiceCharacter
	literalChoiceString
	literalChoiceVector
	literalChoiceBytevector
)

const (
	datumChoiceLabelDef = iota
	datumChoiceLabelRef
	datumChoiceSimple
	datumChoiceCompound
)

const (
	simpleChoiceBoolean = iota
	simpleChoiceNumber
	simpleChoiceCharacter
	simpleChoiceString
	simpleChoiceSymbol
	simpleChoiceBytevector
)

const (
	compoundChoiceList = iota
	compoundChoiceVector
	compoundChoiceAbbrev
)

const (
	listChoiceDotted = iota
	listChoiceProper
)

const (
	patLitChoiceString = iota
	patLitChoiceCharacter
	patLitChoiceBoolean
	patLitChoiceNumber
)

func schemeGrammar() parser.Grammar {
	lparen := func() parser.Term { return parser.S("(") }
	rparen := func() parser.Term { return parser.S(")") }

	formalTail := func() parser.Term {
		return parser.Seq{
			parser.Eq("fixed", parser.Any(ruleSymbol)),
			parser.Eq("rest", parser.Opt(parser.Seq{dot(), ruleSymbol})),
		}
	}

	return parser.Grammar{
		RuleProgram: parser.Some(ruleForm),
		ruleForm:    parser.Oneof{ruleDefinition, ruleExpr},

		ruleDefinition: parser.Oneof{ruleSyntaxDef, ruleFnDef, ruleVarDef},
		ruleSyntaxDef: parser.Seq{
			lparen(), keyword("define-syntax"), ruleSymbol, ruleSynRules, rparen(),
		},
		ruleSynRules: parser.Seq{
			lparen(), keyword("syntax-rules"),
			lparen(), parser.Eq("literals", parser.Any(ruleSymbol)), rparen(),
			parser.Eq("rules", parser.Any(ruleSynRule)),
			rparen(),
		},
		ruleSynRule: parser.Seq{lparen(), rulePatLit, RuleDatum, rparen()},
		rulePatLit:  parser.Oneof{ruleString, ruleCharacter, ruleBoolean, ruleNumber},
		ruleFnDef: parser.Seq{
			lparen(), keyword("define"),
			lparen(), ruleSymbol, formalTail(), rparen(),
			parser.Eq("body", parser.Some(ruleForm)),
			rparen(),
		},
		ruleVarDef: parser.Seq{lparen(), keyword("define"), ruleSymbol, ruleExpr, rparen()},

		ruleExpr: parser.Oneof{ruleLambda, ruleCall, ruleLiteral, ruleIdentifier},
		ruleLambda: parser.Seq{
			lparen(), keyword("lambda"), ruleFormals,
			parser.Eq("body", parser.Some(ruleForm)),
			rparen(),
		},
		ruleFormals:    parser.Oneof{ruleFormalList, ruleSymbol},
		ruleFormalList: parser.Seq{lparen(), formalTail(), rparen()},
		ruleCall: parser.Seq{
			lparen(), ruleExpr, parser.Eq("operands", parser.Any(ruleExpr)), rparen(),
		},
		ruleLiteral: parser.Oneof{
			ruleAbbrev, ruleBoolean, ruleNumber, ruleCharacter, ruleString,
			ruleVector, ruleBytevector,
		},
		ruleIdentifier: parser.Seq{ruleSymbol},

		RuleDatum:    parser.Oneof{ruleLabelDef, ruleLabelRef, ruleSimple, ruleCompound},
		ruleLabelDef: parser.Seq{parser.RE(labelDefRE), RuleDatum},
		ruleLabelRef: parser.Seq{parser.RE(labelRefRE)},
		ruleSimple: parser.Oneof{
			ruleBoolean, ruleNumber, ruleCharacter, ruleString, ruleSymbol, ruleBytevector,
		},
		ruleCompound: parser.Oneof{ruleList, ruleVector, ruleAbbrev},
		ruleList: parser.Oneof{
			parser.Seq{
				lparen(), parser.Eq("items", parser.Some(RuleDatum)),
				dot(), RuleDatum, rparen(),
			},
			parser.Seq{lparen(), parser.Eq("items", parser.Any(RuleDatum)), rparen()},
		},
		ruleVector: parser.Seq{
			parser.S("#("), parser.Eq("items", parser.Any(RuleDatum)), rparen(),
		},
		ruleBytevector: parser.Seq{
			parser.S("#u8("), parser.Eq("bytes", parser.Any(ruleByte)), rparen(),
		},
		ruleByte:   tok(byteRE),
		ruleAbbrev: parser.Seq{parser.RE(abbrevRE), RuleDatum},

		ruleBoolean:   tok(boolRE),
		ruleNumber:    parser.Oneof{ruleNum2, ruleNum8, ruleNum16, ruleNum10},
		ruleNum2:      tok(num2RE),
		ruleNum8:      tok(num8RE),
		ruleNum16:     tok(num16RE),
		ruleNum10:     tok(num10RE),
		ruleCharacter: tok(charRE),
		ruleString:    parser.Seq{parser.RE(stringRE)},
		ruleSymbol:    tok(symbolRE),

		parser.WrapRE: parser.RE(skipRE + `()`),
	}
}

// core is the compiled reader grammar, shared by all parses.
var core = insertCutPoints(schemeGrammar()).Compile()

// Core returns the compiled grammar, for callers that drive the parser
// directly.
func Core() parser.Parsers {
	return core
}
