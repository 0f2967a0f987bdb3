// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cnvio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/grailbio/base/log"

	"github.com/grailbio/cnv/segment"
)

// WriteVCF renders call sets as a multi-sample VCF, the shape spec §6 treats
// as an external collaborator's responsibility ("exact VCF serialization ...
// is out of scope"). Only the fields this module actually produces are
// populated: CN, MCC and QS per sample, and DQS where a sample's segment
// carries one (only probands are given a DQS).
func WriteVCF(w io.Writer, sampleNames []string, calls []segment.CallSet, generatedAt time.Time) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "##fileformat=VCFv4.2\n")
	fmt.Fprintf(bw, "##fileDate=%s\n", generatedAt.Format("20060102"))
	fmt.Fprintf(bw, "##source=cnv-call\n")
	fmt.Fprintf(bw, "##INFO=<ID=END,Number=1,Type=Integer,Description=\"End position of the call\">\n")
	fmt.Fprintf(bw, "##FORMAT=<ID=CN,Number=1,Type=Integer,Description=\"Total copy number\">\n")
	fmt.Fprintf(bw, "##FORMAT=<ID=MCC,Number=1,Type=Integer,Description=\"Major chromosome count\">\n")
	fmt.Fprintf(bw, "##FORMAT=<ID=QS,Number=1,Type=Float,Description=\"Phred-scaled call quality\">\n")
	fmt.Fprintf(bw, "##FORMAT=<ID=DQS,Number=1,Type=Float,Description=\"Phred-scaled de-novo quality, proband only\">\n")
	fmt.Fprintf(bw, "##FILTER=<ID=PASS,Description=\"All filters passed\">\n")

	header := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}
	header = append(header, sampleNames...)
	fmt.Fprintln(bw, strings.Join(header, "\t"))

	for _, c := range calls {
		if err := writeRecord(bw, sampleNames, c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(bw *bufio.Writer, sampleNames []string, c segment.CallSet) error {
	filter := "PASS"
	for _, s := range c.PerSample {
		if s.Filter != nil {
			filter = *s.Filter
			break
		}
	}

	fields := []string{
		c.Chrom,
		fmt.Sprintf("%d", c.Begin+1), // VCF POS is 1-based.
		".",
		"N",
		"<CNV>",
		".",
		filter,
		fmt.Sprintf("END=%d", c.End),
		"CN:MCC:QS:DQS",
	}
	for i := range sampleNames {
		var s *segment.Segment
		if i < len(c.PerSample) {
			s = c.PerSample[i]
		}
		fields = append(fields, sampleFormat(s))
	}
	_, err := fmt.Fprintln(bw, strings.Join(fields, "\t"))
	if err != nil {
		log.Error.Printf("cnvio: writing VCF record for %s:%d-%d: %v", c.Chrom, c.Begin, c.End, err)
	}
	return err
}

func sampleFormat(s *segment.Segment) string {
	if s == nil {
		return "./.:.:.:."
	}
	mcc := "."
	if s.MCC != nil {
		mcc = fmt.Sprintf("%d", *s.MCC)
	}
	dqs := "."
	if s.DQS != nil {
		dqs = fmt.Sprintf("%.2f", *s.DQS)
	}
	return fmt.Sprintf("%d:%s:%.2f:%s", s.CN, mcc, s.QS, dqs)
}
