package keywords

// FilterKeywords are the technology names that exclude a record from the
// keyword filter when found anywhere in its serialized text.
var FilterKeywords = []string{
	"C++", "Python", "HTML", "JavaScript", "Kotlin", "Go", "Scala",
	"Ruby", "PHP", "Swift", "Objective-C", "C", "C#", "SQL", "Perl", "MATLAB", "R", "Julia",
	"TypeScript", "SwiftUI", "React", "Vue.js", "CSS", "Ionic", "Xamarin", "Flutter",
	"React Native", "Node.js", "Electron", "TensorFlow", "OpenCV", "XML",
	"NoSQL", "cURL", "Rust", "Language Integrated Query", "shell",
	"PowerShell", "Bash", "Amazon Web Services", "Apache Flink",
	"scikit", "pandas", "NumPy", "SciPy", "Matplotlib", "Seaborn", "REST",
	"Natural Language Processing", "Machine Learning",
	"Deep Learning", "neural network", "CNN", "RNN", "LSTM", "GRU", "Keras",
	"PostgreSQL", "MySQL", "JSON", "MongoDB", "script", "API", "query", "jQuery",
	"Docker", "pseudocode", "pseudo-code", "DynamoDB", "XPATH", "Tkinter",
}

// StrictKeywords exclude a field before Java scoring.
var StrictKeywords = []string{
	"C++", "C#", "SQL", "HTML", "JavaScript", "Python",
	"PHP", "Ruby", "Perl", "Go", "XML", "Kotlin", "Scala",
	"Objective-C", "Flutter", "React", "Vue", "Angular",
	"TypeScript", "R", "MATLAB", "Julia", "F#",
	"Clojure", "Haskell", "Erlang", "Elixir", "Rust",
	"COBOL", "Fortran", "Pascal", "Ada", "CSS", "PL/I",
}

// LooseKeywords exclude a field before the any-signal check. Unlike the
// strict list it also rejects a bare "C".
var LooseKeywords = []string{
	"C++", "C#", "SQL", "HTML", "JavaScript", "Python",
	"PHP", "Ruby", "Perl", "Go", "XML", "Kotlin", "Scala",
	"Objective-C", "Flutter", "React", "Vue", "Angular",
	"TypeScript", "C", "R", "MATLAB", "Julia", "F#",
	"Clojure", "Haskell", "Erlang", "Elixir", "ClojureScript", "Rust",
	"Perl6", "COBOL", "Fortran", "Pascal", "Ada", "CSS", "PL/I",
}
