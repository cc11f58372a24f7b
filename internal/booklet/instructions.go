package booklet

// Instructions explains how to print the generated PDFs on a printer that
// stacks its output face down, last page first.
const Instructions = `Save paper by printing efficiently.

RESULT:
- Pages are grouped into bundles that are bound separately.
- 2 pages fit on a single side of an A4 sheet.
- Each sheet carries 4 pages of the document: 2 in front and 2 in back.
- Fold the printed sheets of a bundle at the center and they become a booklet.

PRINTING:
- The printer is expected to print in reverse order, so the last page printed
  ends up on top and the stack comes out in reading order.
- For every bundle x:
    1. Print merged-x-back.pdf first. Its ordering is already reversed.
    2. Put the printed sheets back in the tray exactly as they are. Do not
       turn, shuffle or reverse them.
    3. Print merged-x-front.pdf.
`
