package services

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoDBAPI good enough for the expressions the
// services actually issue: conditional puts, partial SET updates, string-set
// ADD/DELETE, equality/ordering conditions, key-condition queries and
// filtered scans.
type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	// getMisses makes the next N GetItem calls on the named table miss, to
	// open the race window between the fast-path read and the insert.
	getMisses map[string]int

	// condFailures forces conditional failures for updates whose condition
	// expression contains the key substring, decremented per hit.
	condFailures map[string]int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables:       map[string]map[string]map[string]types.AttributeValue{},
		getMisses:    map[string]int{},
		condFailures: map[string]int{},
	}
}

func tableKeyAttr(table string) string {
	switch table {
	case "Matches":
		return "matchId"
	case "UserProfiles":
		return "userId"
	case "Projects":
		return "projectId"
	}
	return "id"
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		f.tables[name] = t
	}
	return t
}

func keyValue(key map[string]types.AttributeValue, attr string) string {
	if v, ok := key[attr].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func cloneItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// resolveName substitutes #placeholders in a (possibly dotted) path
func resolveName(path string, names map[string]string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		if strings.HasPrefix(p, "#") {
			parts[i] = names[p]
		}
	}
	return strings.Join(parts, ".")
}

func lookupPath(item map[string]types.AttributeValue, path string) (types.AttributeValue, bool) {
	parts := strings.Split(path, ".")
	current := item
	for i, p := range parts {
		v, ok := current[p]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		m, ok := v.(*types.AttributeValueMemberM)
		if !ok {
			return nil, false
		}
		current = m.Value
	}
	return nil, false
}

func attrString(v types.AttributeValue) (string, bool) {
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// evalCondition evaluates the AND-joined clauses the services use:
// attribute_not_exists(path), path = :v, path <> :v, path <= :v
func evalCondition(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) bool {
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.TrimSpace(clause)

		if strings.HasPrefix(clause, "attribute_not_exists(") {
			path := resolveName(strings.TrimSuffix(strings.TrimPrefix(clause, "attribute_not_exists("), ")"), names)
			if item != nil {
				if _, exists := lookupPath(item, path); exists {
					return false
				}
			}
			continue
		}

		fields := strings.Fields(clause)
		if len(fields) != 3 {
			return false
		}
		if item == nil {
			return false
		}

		leftAttr, ok := lookupPath(item, resolveName(fields[0], names))
		if !ok {
			return false
		}
		left, ok := attrString(leftAttr)
		if !ok {
			return false
		}
		right, ok := attrString(values[fields[2]])
		if !ok {
			return false
		}

		switch fields[1] {
		case "=":
			if left != right {
				return false
			}
		case "<>":
			if left == right {
				return false
			}
		case "<=":
			if left > right {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// splitClauses splits on ", " at parenthesis depth zero
func splitClauses(expr string) []string {
	var out []string
	depth, start := 0, 0
	for i, c := range expr {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(expr[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(expr[start:]))
	return out
}

func applyUpdate(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) {
	verb, rest, _ := strings.Cut(expr, " ")
	switch verb {
	case "SET":
		for _, clause := range splitClauses(rest) {
			lhs, rhs, _ := strings.Cut(clause, " = ")
			path := resolveName(strings.TrimSpace(lhs), names)
			rhs = strings.TrimSpace(rhs)

			if strings.HasPrefix(rhs, "list_append(") {
				// list_append(if_not_exists(<path>, :empty), :appended)
				args := splitClauses(strings.TrimSuffix(strings.TrimPrefix(rhs, "list_append("), ")"))
				existing := []types.AttributeValue{}
				if cur, ok := item[path].(*types.AttributeValueMemberL); ok {
					existing = cur.Value
				}
				appended, _ := values[args[len(args)-1]].(*types.AttributeValueMemberL)
				merged := append(append([]types.AttributeValue{}, existing...), appended.Value...)
				item[path] = &types.AttributeValueMemberL{Value: merged}
				continue
			}
			item[path] = values[rhs]
		}
	case "ADD":
		fields := strings.Fields(rest)
		path := resolveName(fields[0], names)
		add, _ := values[fields[1]].(*types.AttributeValueMemberSS)
		existing := map[string]struct{}{}
		if cur, ok := item[path].(*types.AttributeValueMemberSS); ok {
			for _, m := range cur.Value {
				existing[m] = struct{}{}
			}
		}
		for _, m := range add.Value {
			existing[m] = struct{}{}
		}
		var merged []string
		for m := range existing {
			merged = append(merged, m)
		}
		item[path] = &types.AttributeValueMemberSS{Value: merged}
	case "DELETE":
		fields := strings.Fields(rest)
		path := resolveName(fields[0], names)
		remove, _ := values[fields[1]].(*types.AttributeValueMemberSS)
		cur, ok := item[path].(*types.AttributeValueMemberSS)
		if !ok {
			return
		}
		var kept []string
		for _, m := range cur.Value {
			drop := false
			for _, r := range remove.Value {
				if m == r {
					drop = true
					break
				}
			}
			if !drop {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			delete(item, path)
			return
		}
		item[path] = &types.AttributeValueMemberSS{Value: kept}
	}
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	if f.getMisses[table] > 0 {
		f.getMisses[table]--
		return &dynamodb.GetItemOutput{}, nil
	}

	item, ok := f.table(table)[keyValue(params.Key, tableKeyAttr(table))]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: cloneItem(item)}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	id := keyValue(params.Item, tableKeyAttr(table))

	if params.ConditionExpression != nil {
		existing := f.table(table)[id]
		if !evalCondition(existing, *params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.table(table)[id] = cloneItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	id := keyValue(params.Key, tableKeyAttr(table))
	item, exists := f.table(table)[id]

	if params.ConditionExpression != nil {
		cond := *params.ConditionExpression
		for needle := range f.condFailures {
			if strings.Contains(cond, needle) && f.condFailures[needle] > 0 {
				f.condFailures[needle]--
				return nil, &types.ConditionalCheckFailedException{}
			}
		}
		var condItem map[string]types.AttributeValue
		if exists {
			condItem = item
		}
		if !evalCondition(condItem, cond, params.ExpressionAttributeNames, params.ExpressionAttributeValues) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	if !exists {
		item = cloneItem(params.Key)
		f.table(table)[id] = item
	}
	applyUpdate(item, *params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	return &dynamodb.UpdateItemOutput{Attributes: cloneItem(item)}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	delete(f.table(table), keyValue(params.Key, tableKeyAttr(table)))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		if evalCondition(item, *params.KeyConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues) {
			items = append(items, cloneItem(item))
		}
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		if params.FilterExpression != nil &&
			!evalCondition(item, *params.FilterExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues) {
			continue
		}
		items = append(items, cloneItem(item))
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}
