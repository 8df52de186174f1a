package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with doccmd",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "directives",
		Title:   "Skip and Group Directives",
		Summary: "Comments that skip examples or run several blocks as one",
		Content: topicDirectives,
	},
	{
		Name:    "write-back",
		Title:   "Writing Changes Back",
		Summary: "How formatter output lands in the document, padding, delimiters",
		Content: topicWriteBack,
	},
	{
		Name:    "pycon",
		Title:   "Python Console Transcripts",
		Summary: "Checking and rewriting >>> sessions",
		Content: topicPycon,
	},
	{
		Name:    "markup",
		Title:   "Markup Languages",
		Summary: "Supported file types and their block and comment syntax",
		Content: topicMarkup,
	},
}

const topicQuickstart = `Quick Start
===========

doccmd runs a command against every code block of a language in your
documentation. Each block is written to a temporary file and the command
gets the file path as its last argument.

1. Initialize a project:

    cd your-project
    doccmd init

   This creates .doccmd.yaml with the languages found in your docs.

2. Edit the command in .doccmd.yaml, for example:

    command: ruff check
    languages: [python]

3. Check every document under the current directory:

    doccmd run

4. Let a formatter rewrite the blocks in place:

    doccmd run --command "ruff format" --write

CLI Commands
------------

  doccmd run [paths...]          Check documents (default: files in config)
  doccmd run --language python   Override the configured languages
  doccmd run --write             Write command changes back to documents
  doccmd run --jobs 4            Check up to 4 documents at once
  doccmd run --report out.json   Save a JSON report of every example
  doccmd report [path]           Show a saved report
  doccmd init                    Create .doccmd.yaml
  doccmd languages               List markup and delimiter languages
  doccmd docs                    List documentation topics
  doccmd docs <topic>            Show a documentation topic

Flags given to run override values from .doccmd.yaml. Without a config
file, --command and --language are enough.
`

const topicConfig = `Configuration Reference
=======================

doccmd reads .doccmd.yaml from the working directory or the nearest
parent directory that has one. That directory is the project root.

Fields
------

  command            string|list  Required. Command to run. A string is split
                                  on whitespace; use a list to keep spaces.
                                  $PROJECT_ROOT is expanded.
  languages          list         Required. Code block languages to check.
  markup             map          Suffix to markup language, e.g. .txt: rest.
  files              list         Files and directories to check. Default: [.]
  exclude            list         Glob patterns matched against base names and
                                  paths relative to each directory walked.
  pad-file           bool         Prefix the file with newlines so line numbers
                                  match the document. Default: true.
  pad-groups         bool         Keep the document's line gaps between grouped
                                  blocks. Default: true.
  write-to-file      bool         Write command changes back. Default: false.
  use-pty            bool         Run the command in a pseudo-terminal.
  group-directives   list         Directive names that group blocks. Default: [group]
  skip-directives    list         Directive names that skip blocks. Default: [skip]
  group-attribute    string       Group MDX blocks sharing this attribute value.
  group-all          bool         Run all blocks of a document as one group.
  group-delimiters   bool         Mark each grouped block with comments so it
                                  can be written back on its own.
  group-separator    int          Extra blank lines between grouped blocks
                                  when pad-groups is off.
  temp-file-prefix   string       Temporary file name prefix. Default: doccmd
  temp-file-suffix   string       Temporary file suffix. Default: by language.
  newline            string       "lf", "crlf", or empty to keep the block's own.
  pycon              bool         Treat blocks as Python console transcripts.
  env                map          Extra environment variables for the command.
  jobs               int          Documents checked at once. Default: 1.
  report             string       Path of a JSON report written after each run.

Validation Rules
----------------

- command and languages are required.
- Directive and attribute names start with a letter and contain only
  letters, digits, "-" and "_".
- A name cannot be both a group and a skip directive.
- group-delimiters needs a comment style for every language (see
  'doccmd languages') and cannot be combined with pycon.

Example Config
--------------

  command: [ruff, format, --quiet]
  languages: [python]
  files: [README.md, docs]
  exclude: ["docs/_build"]
  write-to-file: true
  group-delimiters: true
  env:
    RUFF_CACHE_DIR: $PROJECT_ROOT/.cache/ruff
`

const topicDirectives = `Skip and Group Directives
=========================

Directives are comments in the document's own comment syntax. The
examples below use Markdown; see 'doccmd docs markup' for the others.

skip
----

  <!-- skip: next -->     Skip the next code block.
  <!-- skip: start -->    Skip every code block until the matching end.
  <!-- skip: end -->

Skipped blocks are reported as skipped. "next" and "start" cannot
appear inside a skipped range, and "end" must follow "start".

group
-----

  <!-- group: start -->
  ...code blocks...
  <!-- group: end -->

All blocks between start and end are joined into one file and the
command runs once, when the end directive is reached. Text between the
blocks becomes blank lines so the line numbers a tool reports still
point into the document. Groups cannot nest and every start needs an
end.

group-all
---------

With group-all set, every block of a language in a document runs as a
single group. Blocks in a skipped range stay out of it.

group-attribute (MDX)
---------------------

  ` + "```" + `python group="setup"
  import os
  ` + "```" + `

Blocks sharing the attribute value form one group. Ungrouped blocks run
on their own.

Custom names
------------

group-directives and skip-directives accept extra names, so
<!-- custom-group: start --> works after adding custom-group.
`

const topicWriteBack = `Writing Changes Back
====================

With write-to-file, doccmd reads the temporary file after the command
exits and replaces the block's content in the document. The rest of the
document is untouched. If the command fails, its changes are still
written so a formatter that also reports errors keeps its edits.

Padding
-------

With pad-file on, the temporary file starts with as many blank lines as
precede the block in the document. Those lines are removed again before
the content is written back.

Indentation
-----------

Blocks indented in the document, such as reST code blocks, are written
back with the same indentation. An empty result is an error, since
there is no block left to write into.

Groups and delimiters
---------------------

A group can only be written back when each block is marked. With
group-delimiters, doccmd surrounds every block with comments such as

  # doccmd-group-delimiter: start-block-0
  # doccmd-group-delimiter: end-block-0

and splits the command's output on them. A command that removes or
reorders the markers makes the example fail. Without group-delimiters,
grouped blocks are checked but never rewritten.

Newlines
--------

newline: crlf writes "\r\n" line endings to the temporary file; lf
writes "\n". Left empty, the block's own endings are kept.
`

const topicPycon = `Python Console Transcripts
==========================

pycon blocks hold interactive sessions:

  >>> x = [1, 2]
  >>> for i in x:
  ...     print(i)
  1
  2

The command sees only the code, with prompts removed and output left
out. When the command rewrites the code, doccmd puts the prompts back
and keeps each output under its statement as long as the statement
count did not change. Outputs are dropped when it did.

A transcript whose first line is not a prompt is invalid and fails the
example. Languages named pycon are handled this way automatically; the
pycon option does the same for any language.
`

const topicMarkup = `Markup Languages
================

Files are matched by suffix; the longest match wins and the markup
option adds or overrides suffixes.

  markdown   .md .markdown   Fenced blocks; <!-- name: arg --> comments.
  myst       .myst.md .myst  Fenced and {code-block} blocks; % name: arg
                             and HTML comments.
  mdx        .mdx            Fenced blocks with attributes;
                             {/* name: arg */} and HTML comments.
  rest       .rst .rest      .. code-block:: lang directives (also code and
                             sourcecode); .. name: arg comments.
  djot       .dj .djot       Fenced blocks; {% name: arg %} comments.
  norg       .norg           @code lang ... @end; .name: arg comments.

Directive comments inside code blocks are ignored.
`
