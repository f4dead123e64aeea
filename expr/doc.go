/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package expr tokenizes and parses projection lists and predicates into
unresolved expression trees.

# Grammar

	projection-list = item { "," item }
	item            = "*" | expression [ "AS" identifier ]
	expression      = or-expr
	or-expr         = and-expr { "||" and-expr }
	and-expr        = not-expr { "&&" not-expr }
	not-expr        = "!" not-expr | comparison
	comparison      = additive [ ( "=" | "==" | "<>" | "!=" | "<" | "<=" | ">" | ">=" ) additive ]
	additive        = term { ( "+" | "-" ) term }
	term            = unary { ( "*" | "/" | "%" ) unary }
	unary           = "-" unary | postfix
	postfix         = primary { "." identifier "(" [ args ] ")" }
	primary         = literal | identifier | identifier "(" [ args ] ")" | "(" expression ")"

The keywords AS, TRUE and FALSE are case-insensitive. Field names are resolved later against a
schema by the planner package; the parser only builds the tree.

解析错误返回 *ParseError，包含位置信息:

	items, err := expr.ParseProjectionList("a, b + 1 AS c")
	pred, err := expr.ParsePredicate("a > 1 && c.startsWith('H')")
*/
package expr
