package main

const usageLine = "Usage: legrep [-cfnvz] [-e pattern] pattern [file ...].  legrep ? for help"

const documentation = `legrep searches a file for a given pattern.  Execute by
legrep [flags] regular_expression file_list

Flags are single characters preceded by '-':
-c      Only a count of matching lines is printed
-f      Print file name for matching lines switch, see below
-n      Each line is preceded by its line number
-v      Only print non-matching lines
-z      Search gzip, zstd and xz compressed files transparently
-e pat  Search for pat; may be repeated, a line matching any pattern is
        selected

The file_list is a list of files; wildcards the shell did not expand are
expanded here.  Without files, standard input is searched.

The file name is normally printed if there is a file given.
The -f flag reverses this action (print name no file, not if more).

The exit status is 0 if any line was selected, 1 if none was and 2 on
a usage, pattern or file error.
`

const patternDocumentation = `The regular_expression defines the pattern to search for.  Upper- and
lower-case are always ignored.  Blank lines never match.  The expression
should be quoted to prevent file-name translation.
x      An ordinary character (not mentioned below) matches that character.
'\'    The backslash quotes any character.  "\$" matches a dollar-sign.
'^'    A circumflex at the beginning of an expression matches the
       beginning of a line.
'$'    A dollar-sign at the end of an expression matches the end of a line.
'.'    A period matches any character except "new-line".
':a'   A colon matches a class of characters described by the following
':d'     character.  ":a" matches any alphabetic, ":d" matches digits,
':n'     ":n" matches alphanumerics, ": " matches spaces, tabs, and
': '     other control characters, such as new-line.
'*'    An expression followed by an asterisk matches zero or more
       occurrences of that expression: "fo*" matches "f", "fo"
       "foo", etc.
'+'    An expression followed by a plus sign matches one or more
       occurrences of that expression: "fo+" matches "fo", etc.
'-'    An expression followed by a minus sign optionally matches
       the expression.
'[]'   A string enclosed in square brackets matches any character in
       that string, but no others.  If the first character in the
       string is a circumflex, the expression matches any character
       except "new-line" and the characters in the string.  For
       example, "[xyz]" matches "xx" and "zyx", while "[^xyz]"
       matches "abc" but not "axb".  A range of characters may be
       specified by two characters separated by "-".  Note that,
       [a-z] matches alphabetics, while [z-a] never matches.
The concatenation of regular expressions is a regular expression.
`
