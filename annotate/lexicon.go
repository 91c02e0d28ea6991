package annotate

// punctTags maps punctuation forms to Penn Treebank tags.
var punctTags = map[string]string{
	".": ".", "!": ".", "?": ".",
	",": ",", ";": ":", ":": ":",
	"(": "-LRB-", ")": "-RRB-",
	"\"": "''", "'": "''", "`": "``",
	"$": "$", "%": "NN", "&": "CC", "#": "#", "-": ":",
}

// lexicon covers closed-class words and frequent irregular verb forms. The
// suffix heuristics in posTag handle everything else.
var lexicon = map[string]string{
	// Determiners and pronouns
	"the": "DT", "a": "DT", "an": "DT", "this": "DT", "that": "DT",
	"these": "DT", "those": "DT", "each": "DT", "every": "DT", "some": "DT",
	"any": "DT", "no": "DT", "all": "DT", "both": "DT", "another": "DT",
	"he": "PRP", "she": "PRP", "it": "PRP", "they": "PRP", "we": "PRP",
	"i": "PRP", "you": "PRP", "him": "PRP", "her": "PRP", "them": "PRP",
	"us": "PRP", "me": "PRP", "his": "PRP$", "their": "PRP$", "its": "PRP$",
	"our": "PRP$", "my": "PRP$", "your": "PRP$",
	"who": "WP", "what": "WP", "which": "WDT", "whose": "WP$", "when": "WRB",
	"where": "WRB", "why": "WRB", "how": "WRB",

	// Prepositions and conjunctions
	"of": "IN", "in": "IN", "on": "IN", "at": "IN", "by": "IN", "for": "IN",
	"with": "IN", "from": "IN", "into": "IN", "during": "IN", "after": "IN",
	"before": "IN", "between": "IN", "against": "IN", "through": "IN",
	"over": "IN", "under": "IN", "until": "IN", "since": "IN", "within": "IN",
	"about": "IN", "as": "IN", "than": "IN", "because": "IN", "while": "IN",
	"if": "IN", "though": "IN", "although": "IN",
	"and": "CC", "or": "CC", "but": "CC", "nor": "CC", "yet": "CC", "so": "CC",
	"to": "TO",

	// Modals and auxiliaries
	"will": "MD", "would": "MD", "can": "MD", "could": "MD", "may": "MD",
	"might": "MD", "shall": "MD", "should": "MD", "must": "MD",
	"is": "VBZ", "are": "VBP", "was": "VBD", "were": "VBD", "be": "VB",
	"been": "VBN", "being": "VBG", "am": "VBP",
	"has": "VBZ", "have": "VBP", "had": "VBD", "having": "VBG",
	"does": "VBZ", "do": "VBP", "did": "VBD", "doing": "VBG", "done": "VBN",

	// Frequent irregular verb forms (past/participle)
	"went": "VBD", "left": "VBD", "said": "VBD", "told": "VBD", "came": "VBD",
	"got": "VBD", "took": "VBD", "made": "VBD", "saw": "VBD", "knew": "VBD",
	"gave": "VBD", "found": "VBD", "thought": "VBD", "held": "VBD",
	"met": "VBD", "ran": "VBD", "began": "VBD", "brought": "VBD",
	"bought": "VBD", "sold": "VBD", "won": "VBD", "lost": "VBD", "led": "VBD",
	"fell": "VBD", "rose": "VBD", "grew": "VBD", "paid": "VBD", "kept": "VBD",
	"sent": "VBD", "spent": "VBD", "built": "VBD", "broke": "VBD",
	"spoke": "VBD", "wrote": "VBD", "chose": "VBD", "drove": "VBD",
	"flew": "VBD", "became": "VBD",
	"gone": "VBN", "taken": "VBN", "given": "VBN", "known": "VBN",
	"seen": "VBN", "shown": "VBN", "grown": "VBN", "risen": "VBN",
	"fallen": "VBN", "broken": "VBN", "spoken": "VBN", "written": "VBN",
	"chosen": "VBN", "driven": "VBN", "flown": "VBN", "begun": "VBN",

	// Frequent base/present verbs the suffix rules miss
	"say": "VB", "says": "VBZ", "go": "VB", "goes": "VBZ", "leave": "VB",
	"leaves": "VBZ", "come": "VB", "comes": "VBZ", "get": "VB", "gets": "VBZ",
	"take": "VB", "takes": "VBZ", "make": "VB", "makes": "VBZ", "see": "VB",
	"sees": "VBZ", "know": "VB", "knows": "VBZ", "give": "VB", "gives": "VBZ",
	"announce": "VB", "announces": "VBZ", "report": "VB", "reports": "VBZ",
	"expect": "VB", "expects": "VBZ", "plan": "VB", "plans": "VBZ",
	"begin": "VB", "begins": "VBZ", "continue": "VB", "continues": "VBZ",
	"remain": "VB", "remains": "VBZ", "happen": "VB", "happens": "VBZ",
	"occur": "VB", "occurs": "VBZ", "meet": "VB", "meets": "VBZ",

	// Adverbs the -ly rule misses
	"not": "RB", "n't": "RB", "now": "RB", "then": "RB", "here": "RB",
	"there": "EX", "also": "RB", "still": "RB", "again": "RB", "soon": "RB",
	"never": "RB", "always": "RB", "already": "RB", "ago": "RB",
	"yesterday": "NN", "today": "NN", "tomorrow": "NN", "tonight": "NN",

	// Temporal nouns
	"year": "NN", "years": "NNS", "month": "NN", "months": "NNS",
	"week": "NN", "weeks": "NNS", "day": "NN", "days": "NNS",
	"hour": "NN", "hours": "NNS", "minute": "NN", "minutes": "NNS",
	"second": "NN", "seconds": "NNS", "decade": "NN", "decades": "NNS",
	"century": "NN", "morning": "NN", "afternoon": "NN", "evening": "NN",
	"night": "NN", "time": "NN", "moment": "NN", "period": "NN",

	// Common adjectives
	"new": "JJ", "last": "JJ", "next": "JJ", "first": "JJ", "latest": "JJS",
	"recent": "JJ", "early": "JJ", "late": "JJ", "good": "JJ", "bad": "JJ",
	"big": "JJ", "small": "JJ", "high": "JJ", "low": "JJ", "few": "JJ",
	"several": "JJ", "many": "JJ", "much": "JJ", "same": "JJ", "other": "JJ",
	"own": "JJ", "more": "JJR", "most": "JJS", "less": "JJR", "least": "JJS",

	// Written-out numbers
	"one": "CD", "two": "CD", "three": "CD", "four": "CD", "five": "CD",
	"six": "CD", "seven": "CD", "eight": "CD", "nine": "CD", "ten": "CD",
	"eleven": "CD", "twelve": "CD", "twenty": "CD", "thirty": "CD",
	"forty": "CD", "fifty": "CD", "hundred": "CD", "thousand": "CD",
	"million": "CD", "billion": "CD",
}

// irregularLemmas maps irregular inflected forms to their base form.
var irregularLemmas = map[string]string{
	"went": "go", "gone": "go", "goes": "go",
	"left": "leave", "leaves": "leave",
	"said": "say", "says": "say",
	"told": "tell", "came": "come", "got": "get", "gotten": "get",
	"took": "take", "taken": "take", "made": "make", "saw": "see",
	"seen": "see", "knew": "know", "known": "know", "gave": "give",
	"given": "give", "found": "find", "thought": "think", "held": "hold",
	"met": "meet", "ran": "run", "began": "begin", "begun": "begin",
	"brought": "bring", "bought": "buy", "sold": "sell", "won": "win",
	"lost": "lose", "led": "lead", "fell": "fall", "fallen": "fall",
	"rose": "rise", "risen": "rise", "grew": "grow", "grown": "grow",
	"paid": "pay", "kept": "keep", "sent": "send", "spent": "spend",
	"built": "build", "broke": "break", "broken": "break", "spoke": "speak",
	"spoken": "speak", "wrote": "write", "written": "write", "chose": "choose",
	"chosen": "choose", "drove": "drive", "driven": "drive", "flew": "fly",
	"flown": "fly", "became": "become",
	"is": "be", "are": "be", "was": "be", "were": "be", "been": "be",
	"being": "be", "am": "be",
	"has": "have", "had": "have", "having": "have",
	"does": "do", "did": "do", "done": "do", "doing": "do",
	"children": "child", "men": "man", "women": "woman", "people": "person",
	"feet": "foot", "teeth": "tooth",
}
