package optimus

// Action names one auditable operation applied to a column or a set of rows.
// Each Action has a distinct identifier, so the history kept in a DataFrame's
// metadata always tells which variant ran.
type Action string

// Column actions
const (
	ProfilerDtype      Action = "profiler_dtype"
	Match              Action = "match"
	Lower              Action = "lower"
	Upper              Action = "upper"
	Proper             Action = "proper"
	Pad                Action = "pad"
	Trim               Action = "trim"
	Reverse            Action = "reverse"
	RemoveAccents      Action = "remove_accents"
	RemoveSpecialChars Action = "remove_special_chars"
	RemoveWhiteSpaces  Action = "remove_white_spaces"
	Left               Action = "left"
	Right              Action = "right"
	Mid                Action = "mid"
	Replace            Action = "replace"
	ReplaceRegex       Action = "replace_regex"
	ReplaceWords       Action = "replace_words"
	ReplaceFull        Action = "replace_full"
	FillNA             Action = "fill_na"
	Cast               Action = "cast"
	IsNA               Action = "is_na"
	ZScore             Action = "z_score"
	Nest               Action = "nest"
	Unnest             Action = "unnest"
	Set                Action = "set"
	StringToIndex      Action = "string_to_index"
	DateFormat         Action = "date_format"
	IndexToString      Action = "index_to_string"
	MinMaxScaler       Action = "min_max_scaler"
	MaxAbsScaler       Action = "max_abs_scaler"
	StandardScaler     Action = "standard_scaler"
	ApplyCols          Action = "apply_cols"
	YearsBetween       Action = "years_between"
	Impute             Action = "impute"
	Extract            Action = "extract"
	Abs                Action = "abs"
	Math               Action = "math"
	Exp                Action = "exp"
	Sqrt               Action = "sqrt"
	Ln                 Action = "ln"
	Log                Action = "log"
	Ceil               Action = "ceil"
	Floor              Action = "floor"
	Sin                Action = "sin"
	Cos                Action = "cos"
	Tan                Action = "tan"
	Asin               Action = "asin"
	Acos               Action = "acos"
	Atan               Action = "atan"
	Sinh               Action = "sinh"
	Cosh               Action = "cosh"
	Tanh               Action = "tanh"
	Asinh              Action = "asinh"
	Acosh              Action = "acosh"
	Atanh              Action = "atanh"
	Radians            Action = "radians"
	Degrees            Action = "degrees"
	Variance           Action = "variance"
	Slice              Action = "slice"
	Clip               Action = "clip"
	Drop               Action = "drop"
	Keep               Action = "keep"
	Cut                Action = "cut"
	ToFloat            Action = "to_float"
	ToInteger          Action = "to_integer"
	ToBoolean          Action = "to_boolean"
	ToString           Action = "to_string"
	Year               Action = "years"
	AppendColumn       Action = "append"
	Port               Action = "port"
	Copy               Action = "copy"
	Rename             Action = "rename"
	Unique             Action = "unique"
	Infer              Action = "infer"
	WordTokenize       Action = "word_tokenize"
	Length             Action = "length"
	Get                Action = "get"
	Item               Action = "item"
	Domain             Action = "domain"
	DomainScheme       Action = "domain_scheme"
	Subdomain          Action = "subdomain"
	Host               Action = "host"
	DomainParams       Action = "domain_params"
	DomainPath         Action = "domain_path"
	EmailDomain        Action = "email_domain"
	EmailUser          Action = "email_user"
	Profile            Action = "profile"
	CountZeros         Action = "count_zeros"
)

// Row actions
const (
	SelectRow      Action = "select_row"
	DropRow        Action = "drop_row"
	BetweenRow     Action = "between_row"
	SortRow        Action = "sort_row"
	LimitRow       Action = "limit_row"
	AppendRow      Action = "append_row"
	DropDuplicates Action = "drop_duplicates"
)

var actions = []Action{
	ProfilerDtype, Match, Lower, Upper, Proper, Pad, Trim, Reverse, RemoveAccents,
	RemoveSpecialChars, RemoveWhiteSpaces, Left, Right, Mid, Replace, ReplaceRegex,
	ReplaceWords, ReplaceFull, FillNA, Cast, IsNA, ZScore, Nest, Unnest, Set,
	StringToIndex, DateFormat, IndexToString, MinMaxScaler, MaxAbsScaler,
	StandardScaler, ApplyCols, YearsBetween, Impute, Extract, Abs, Math, Exp, Sqrt,
	Ln, Log, Ceil, Floor, Sin, Cos, Tan, Asin, Acos, Atan, Sinh, Cosh, Tanh, Asinh,
	Acosh, Atanh, Radians, Degrees, Variance, Slice, Clip, Drop, Keep, Cut, ToFloat,
	ToInteger, ToBoolean, ToString, Year, AppendColumn, Port, Copy, Rename, Unique,
	Infer, WordTokenize, Length, Get, Item, Domain, DomainScheme, Subdomain, Host,
	DomainParams, DomainPath, EmailDomain, EmailUser, Profile, CountZeros,
	SelectRow, DropRow, BetweenRow, SortRow, LimitRow, AppendRow, DropDuplicates,
}

// Actions lists every Action known to the Capability Registry
func Actions() []Action {
	res := make([]Action, len(actions))
	copy(res, actions)
	return res
}

// ActionSet is an immutable set of Actions, used by Adapters to declare which operations they implement
type ActionSet struct {
	members map[Action]struct{}
}

// NewActionSet creates an ActionSet containing the given Actions
func NewActionSet(members ...Action) ActionSet {
	set := ActionSet{members: make(map[Action]struct{}, len(members))}
	for _, a := range members {
		set.members[a] = struct{}{}
	}
	return set
}

// Contains returns true iff this set includes the given Action
func (s ActionSet) Contains(a Action) bool {
	_, ok := s.members[a]
	return ok
}

// Without returns a new ActionSet lacking the given Actions
func (s ActionSet) Without(remove ...Action) ActionSet {
	res := NewActionSet()
	for a := range s.members {
		res.members[a] = struct{}{}
	}
	for _, a := range remove {
		delete(res.members, a)
	}
	return res
}

// Len returns the number of Actions in this set
func (s ActionSet) Len() int {
	return len(s.members)
}
