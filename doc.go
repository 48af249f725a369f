/* Command gobf runs programs for an eight instruction tape machine.

A program is a sequence of bytes; the machine walks it with an instruction
pointer while mutating a separate tape of byte cells through a data pointer:

	>  move the data pointer one cell right
	<  move the data pointer one cell left
	+  increment the current cell, 255 wraps to 0
	-  decrement the current cell, 0 wraps to 255
	.  output the current cell
	,  read the next input byte into the current cell
	[  if the current cell is 0, continue after the matching ]
	]  if the current cell is not 0, continue after the matching [

Any other byte is a comment. Brackets must nest; a program with an unmatched
bracket is rejected before it runs, with the bracket's line and column.

The tape grows on demand unless --mem-limit bounds it. Reading past the end
of input fails by default; --eof=zero stores 0 instead, and --eof=keep leaves
the cell unchanged. Output must be valid UTF-8 unless --raw or --stream is
given. A program may loop forever; --max-steps and --timeout bound it.

Settings may also come from a TOML or YAML file given by --config, using the
snake_case form of the flag names:

	mem_limit = 30000
	max_steps = 1000000
	eof = "zero"
	timeout = "5s"

Any failure is logged on stderr as "ERROR: ..." and exits non-zero; --dump
adds a dump of the machine state, as text or, with --dump-format=yaml, as a
YAML document.
*/
package main
