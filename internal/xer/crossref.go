package xer

import "log/slog"

// crossref.go joins the classification tables into per-task lookup maps.
//
// Activity codes span three tables: ACTVTYPE defines code types, ACTVCODE
// defines the values of each type, and TASKACTV assigns a (type, value) pair
// to a task. UDFs span two: UDFTYPE defines the field, UDFVALUE carries the
// assignment. Both joins run as hash-map passes over the assignment table,
// so each is O(rows).

// ActivityCodes maps task_id to {code type name -> code value name}.
type ActivityCodes map[string]map[string]string

// UDFValues maps a foreign-key id (task_id for activity-scoped fields) to
// {UDF field name -> text value}.
type UDFValues map[string]map[string]string

// BuildActivityCodes resolves TASKACTV assignments through the ACTVTYPE and
// ACTVCODE definition tables. If any of the three tables is absent the
// result is empty; missing classification data never fails a parse.
// Assignment rows missing any required id, or whose ids fail a lookup, are
// skipped.
func BuildActivityCodes(tables map[string]*RawTable) ActivityCodes {
	typeTbl, okT := tables["ACTVTYPE"]
	codeTbl, okC := tables["ACTVCODE"]
	assignTbl, okA := tables["TASKACTV"]
	if !okT || !okC || !okA {
		slog.Debug("activity code tables not available")
		return ActivityCodes{}
	}

	typeNames := lookupMap(typeTbl, "actv_code_type_id", "actv_code_type")
	valueNames := lookupMap(codeTbl, "actv_code_id", "actv_code_name")

	codes := ActivityCodes{}
	for _, row := range assignTbl.Rows {
		taskID := assignTbl.Value(row, "task_id")
		typeID := assignTbl.Value(row, "actv_code_type_id")
		codeID := assignTbl.Value(row, "actv_code_id")
		if taskID == "" || typeID == "" || codeID == "" {
			continue
		}

		typeName := typeNames[typeID]
		codeValue := valueNames[codeID]
		if typeName == "" || codeValue == "" {
			continue
		}

		if codes[taskID] == nil {
			codes[taskID] = make(map[string]string)
		}
		codes[taskID][typeName] = codeValue
	}
	return codes
}

// BuildUDFValues resolves UDFVALUE assignments through the UDFTYPE definition
// table. Same absence policy as BuildActivityCodes: missing tables yield an
// empty map, never an error.
func BuildUDFValues(tables map[string]*RawTable) UDFValues {
	typeTbl, okT := tables["UDFTYPE"]
	valueTbl, okV := tables["UDFVALUE"]
	if !okT || !okV {
		slog.Debug("UDF tables not available")
		return UDFValues{}
	}

	typeNames := lookupMap(typeTbl, "udf_type_id", "udf_type_name")

	udfs := UDFValues{}
	for _, row := range valueTbl.Rows {
		fkID := valueTbl.Value(row, "fk_id")
		typeID := valueTbl.Value(row, "udf_type_id")
		text := valueTbl.Value(row, "udf_text")
		if fkID == "" || typeID == "" || text == "" {
			continue
		}

		name := typeNames[typeID]
		if name == "" {
			continue
		}

		if udfs[fkID] == nil {
			udfs[fkID] = make(map[string]string)
		}
		udfs[fkID][name] = text
	}
	return udfs
}

// lookupMap builds an id -> name dictionary from a definition table,
// skipping rows with an empty id or name.
func lookupMap(t *RawTable, idCol, nameCol string) map[string]string {
	m := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		id := t.Value(row, idCol)
		name := t.Value(row, nameCol)
		if id == "" || name == "" {
			continue
		}
		m[id] = name
	}
	return m
}
